package ecs

import (
	"fmt"
	"reflect"
)

// resourceSlot holds one uniquely-owned resource plus the ticks at which it
// was added and last mutated.
type resourceSlot struct {
	value   any
	added   Tick
	changed Tick
}

func resourceKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// InsertResource stores value as the world's unique T resource, replacing any
// previous one. A newly inserted resource counts as changed.
func InsertResource[T any](w *World, value *T) {
	t := w.advanceTick()
	w.resources[resourceKey[T]()] = &resourceSlot{value: value, added: t, changed: t}
}

// Resource returns the T resource for read-only use.
func Resource[T any](w *World) (*T, bool) {
	slot, ok := w.resources[resourceKey[T]()]
	if !ok {
		return nil, false
	}
	return slot.value.(*T), true
}

// MustResource returns the T resource or panics. For resources whose absence
// is a wiring bug rather than a runtime condition.
func MustResource[T any](w *World) *T {
	r, ok := Resource[T](w)
	if !ok {
		panic(fmt.Sprintf("ecs: resource %s not present", resourceKey[T]()))
	}
	return r
}

// ResourceMut returns the T resource for mutation and records the access on
// the change counter, so observers see the resource as changed.
func ResourceMut[T any](w *World) (*T, bool) {
	slot, ok := w.resources[resourceKey[T]()]
	if !ok {
		return nil, false
	}
	slot.changed = w.advanceTick()
	return slot.value.(*T), true
}

// MarkChanged flags the T resource as mutated without touching its value.
// No-op when the resource is absent.
func MarkChanged[T any](w *World) {
	if slot, ok := w.resources[resourceKey[T]()]; ok {
		slot.changed = w.advanceTick()
	}
}

// RemoveResource detaches and returns the T resource.
func RemoveResource[T any](w *World) (*T, bool) {
	key := resourceKey[T]()
	slot, ok := w.resources[key]
	if !ok {
		return nil, false
	}
	delete(w.resources, key)
	return slot.value.(*T), true
}

// ResourceChanged reports whether the T resource was added or mutated since
// the system behind state last ran. Absent resources read as unchanged.
func ResourceChanged[T any](w *World, state *SystemState) bool {
	slot, ok := w.resources[resourceKey[T]()]
	if !ok {
		return false
	}
	return slot.changed > state.lastRun
}

// ResourceAdded reports whether the T resource was inserted since the system
// behind state last ran.
func ResourceAdded[T any](w *World, state *SystemState) bool {
	slot, ok := w.resources[resourceKey[T]()]
	if !ok {
		return false
	}
	return slot.added > state.lastRun
}

// ResourceScope detaches the T resource from the world, runs fn against the
// now-resource-free world together with the detached value, and reattaches
// the resource before returning. Reattachment is deferred, so it happens on
// panic paths too. The slot's change ticks survive the round trip.
//
// While fn runs, the T resource is genuinely absent: a lookup from inside fn
// finds nothing. That absence is what makes the one-shot entry points safe
// against recursion without any lock.
func ResourceScope[T any](w *World, fn func(w *World, value *T)) {
	key := resourceKey[T]()
	slot, ok := w.resources[key]
	if !ok {
		panic(fmt.Sprintf("ecs: resource %s not present", key))
	}
	delete(w.resources, key)
	defer func() {
		w.resources[key] = slot
	}()
	fn(w, slot.value.(*T))
}
