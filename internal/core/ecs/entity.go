package ecs

// EntityID packs a 32-bit slot index in the low half and a 32-bit generation
// in the high half. The generation bumps when the slot is released, so a held
// id from a previous occupant can never pass an Alive check.
type EntityID uint64

func makeEntityID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

// EntityPool allocates entity ids from a free list of released slots,
// growing the generation table only when the free list is empty.
type EntityPool struct {
	generations []uint32
	free        []uint32
	next        uint32
	live        int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 512),
		free:        make([]uint32, 0, 128),
	}
}

func (p *EntityPool) Allocate() EntityID {
	p.live++
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		return makeEntityID(idx, p.generations[idx])
	}
	idx := p.next
	p.next++
	p.generations = append(p.generations, 0)
	return makeEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	return idx < p.next && p.generations[idx] == id.Generation()
}

// Release frees the slot behind id. Stale ids are ignored, so releasing the
// same id twice frees the slot only once.
func (p *EntityPool) Release(id EntityID) {
	if !p.Alive(id) {
		return
	}
	idx := id.Index()
	p.generations[idx]++
	p.free = append(p.free, idx)
	p.live--
}

// Live reports how many entities are currently allocated.
func (p *EntityPool) Live() int { return p.live }
