package ecs

// Removable is the per-store cleanup hook the world calls on despawn.
type Removable interface {
	Remove(id EntityID)
}

// Store is a typed component store backed by a map. Pure generics, no
// reflection on the hot path.
type Store[T any] struct {
	items map[EntityID]*T
}

// NewStore creates a component store and registers it with the world so
// Despawn clears the entity's component from it.
func NewStore[T any](w *World) *Store[T] {
	s := &Store[T]{items: make(map[EntityID]*T, 64)}
	w.registerStore(s)
	return s
}

func (s *Store[T]) Set(id EntityID, c *T) {
	s.items[id] = c
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.items[id]
	return c, ok
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.items[id]
	return ok
}

func (s *Store[T]) Remove(id EntityID) {
	delete(s.items, id)
}

func (s *Store[T]) Len() int { return len(s.items) }

func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.items {
		fn(id, c)
	}
}
