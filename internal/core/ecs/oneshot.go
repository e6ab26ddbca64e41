package ecs

// World entry points for one-shot system execution.
//
// The SystemRegistry lives inside the very world it needs exclusive access
// to, so the run paths detach it first: ResourceScope pulls the registry out
// of resource storage, hands the registry-free world plus the detached
// registry to the registry method, and reattaches on every exit path. While
// a one-shot run is in flight the registry is simply not there, which is the
// whole recursion guard: a system that tries to start another one-shot run
// from inside its own run finds no registry and panics instead of nesting or
// deadlocking.

const registryMissingMsg = "ecs: SystemRegistry not found: nested and recursive one-shot systems are not supported"

// RegisterSystem stores fn in the world's SystemRegistry and returns its id.
func (w *World) RegisterSystem(fn SystemFn) SystemID {
	reg, ok := Resource[SystemRegistry](w)
	if !ok {
		panic(registryMissingMsg)
	}
	return reg.Register(fn)
}

// RemoveSystem deletes a registered system. Unknown ids are a no-op.
func (w *World) RemoveSystem(id SystemID) {
	reg, ok := Resource[SystemRegistry](w)
	if !ok {
		panic(registryMissingMsg)
	}
	reg.Remove(id)
}

// RunSystem executes fn once without registering it. State never persists
// between RunSystem calls, even for structurally identical callables.
func (w *World) RunSystem(fn SystemFn) {
	if _, ok := Resource[SystemRegistry](w); !ok {
		panic(registryMissingMsg)
	}
	ResourceScope(w, func(w *World, reg *SystemRegistry) {
		reg.Run(w, fn)
	})
}

// RunSystemByID executes the registered system behind id, reusing its cached
// state. Returns UnknownSystemError for ids that were never registered or
// have been removed.
func (w *World) RunSystemByID(id SystemID) error {
	if _, ok := Resource[SystemRegistry](w); !ok {
		panic(registryMissingMsg)
	}
	var err error
	ResourceScope(w, func(w *World, reg *SystemRegistry) {
		err = reg.RunByID(w, id)
	})
	return err
}
