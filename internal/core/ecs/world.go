package ecs

import "reflect"

// Tick is the world's monotonically increasing change counter. Every resource
// insertion, mutable access, and system run advances it; change detection
// compares a slot's recorded tick against a system's last-run tick.
type Tick uint64

// World is the top-level container: the entity pool, every registered
// component store, and the type-keyed resource slots. A fresh world always
// carries a SystemRegistry resource so one-shot execution works out of the
// box.
type World struct {
	pool      *EntityPool
	stores    []Removable
	resources map[reflect.Type]*resourceSlot
	tick      Tick
}

func NewWorld() *World {
	w := &World{
		pool:      NewEntityPool(),
		resources: make(map[reflect.Type]*resourceSlot, 16),
	}
	InsertResource(w, NewSystemRegistry())
	return w
}

func (w *World) Spawn() EntityID {
	return w.pool.Allocate()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Despawn clears the entity from every registered store and frees its id.
func (w *World) Despawn(id EntityID) {
	for _, s := range w.stores {
		s.Remove(id)
	}
	w.pool.Release(id)
}

// EntityCount reports how many entities are currently alive.
func (w *World) EntityCount() int { return w.pool.Live() }

// ChangeTick reports the current change counter value.
func (w *World) ChangeTick() Tick { return w.tick }

func (w *World) registerStore(s Removable) {
	w.stores = append(w.stores, s)
}

func (w *World) advanceTick() Tick {
	w.tick++
	return w.tick
}
