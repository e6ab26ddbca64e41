package ecs

import "fmt"

// SystemID identifies a system registered with the SystemRegistry. Ids are
// handed out in strictly increasing order starting at 1 and are never reused,
// not even after removal. Two ids compare equal iff they wrap the same number.
type SystemID struct {
	id uint32
}

func (id SystemID) String() string {
	return fmt.Sprintf("SystemID(%d)", id.id)
}

// UnknownSystemError is the one recoverable registry failure: RunByID was
// given an id that was never registered, or was removed.
type UnknownSystemError struct {
	ID SystemID
}

func (e *UnknownSystemError) Error() string {
	return fmt.Sprintf("no system registered under %s", e.ID)
}

type registeredSystem struct {
	initialized bool
	system      System
}

// SystemRegistry stores executable systems keyed by SystemID so they can be
// run on demand with their cached state intact. It lives inside the world as
// a resource; use the World entry points (RegisterSystem, RunSystem,
// RunSystemByID) rather than juggling the detach dance yourself.
type SystemRegistry struct {
	lastID  uint32
	systems map[uint32]*registeredSystem
}

func NewSystemRegistry() *SystemRegistry {
	return &SystemRegistry{
		systems: make(map[uint32]*registeredSystem, 16),
	}
}

// Register stores fn under a fresh id and returns the id. Every call
// allocates a new entry: registering structurally identical logic twice
// yields two independent systems with independent cached state.
func (r *SystemRegistry) Register(fn SystemFn) SystemID {
	r.lastID++
	r.systems[r.lastID] = &registeredSystem{system: IntoSystem(fn)}
	return SystemID{id: r.lastID}
}

// Remove deletes the system stored under id. Unknown ids are a no-op.
func (r *SystemRegistry) Remove(id SystemID) {
	delete(r.systems, id.id)
}

// Len reports how many systems are currently registered.
func (r *SystemRegistry) Len() int { return len(r.systems) }

// Run executes fn once as a throwaway system: construct, initialize, run,
// flush deferred commands, discard. Nothing persists, so local values and
// change tracking start from scratch on every call.
func (r *SystemRegistry) Run(w *World, fn SystemFn) {
	sys := IntoSystem(fn)
	sys.Initialize(w)
	sys.Run(w)
	sys.ApplyDeferred(w)
}

// RunByID executes the system stored under id, initializing it on first use.
// Deferred commands flush before RunByID returns. An unknown id returns
// UnknownSystemError and mutates nothing.
func (r *SystemRegistry) RunByID(w *World, id SystemID) error {
	entry, ok := r.systems[id.id]
	if !ok {
		return &UnknownSystemError{ID: id}
	}
	if !entry.initialized {
		entry.system.Initialize(w)
		entry.initialized = true
	}
	entry.system.Run(w)
	entry.system.ApplyDeferred(w)
	return nil
}
