package ecs

// Each2 visits every entity holding both A and B, walking the smaller store
// and probing the other.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	if sb.Len() < sa.Len() {
		for id, b := range sb.items {
			if a, ok := sa.items[id]; ok {
				fn(id, a, b)
			}
		}
		return
	}
	for id, a := range sa.items {
		if b, ok := sb.items[id]; ok {
			fn(id, a, b)
		}
	}
}

// Each3 visits every entity holding A, B, and C, walking the smallest store.
func Each3[A, B, C any](sa *Store[A], sb *Store[B], sc *Store[C], fn func(EntityID, *A, *B, *C)) {
	smallest := 0
	n := sa.Len()
	if sb.Len() < n {
		smallest, n = 1, sb.Len()
	}
	if sc.Len() < n {
		smallest = 2
	}

	switch smallest {
	case 0:
		for id, a := range sa.items {
			b, ok := sb.items[id]
			if !ok {
				continue
			}
			if c, ok := sc.items[id]; ok {
				fn(id, a, b, c)
			}
		}
	case 1:
		for id, b := range sb.items {
			a, ok := sa.items[id]
			if !ok {
				continue
			}
			if c, ok := sc.items[id]; ok {
				fn(id, a, b, c)
			}
		}
	case 2:
		for id, c := range sc.items {
			a, ok := sa.items[id]
			if !ok {
				continue
			}
			if b, ok := sb.items[id]; ok {
				fn(id, a, b, c)
			}
		}
	}
}
