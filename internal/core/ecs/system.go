package ecs

import "reflect"

// SystemFn is the shape of a plain system callable: no inputs, no outputs,
// just the world and the system's own cached state.
type SystemFn func(w *World, state *SystemState)

// System is the uniform executable stored by the registry. Initialize runs
// exactly once before the first Run; ApplyDeferred flushes the commands the
// run queued.
type System interface {
	Initialize(w *World)
	Run(w *World)
	ApplyDeferred(w *World)
}

// SystemState is the per-system cache that persists across runs of a
// registered system: type-keyed local values, the deferred command queue,
// and the change tick of the previous run.
type SystemState struct {
	lastRun Tick
	locals  map[reflect.Type]any
	cmds    CommandQueue
}

// Commands is the queue a system pushes deferred mutations onto during Run.
// It is flushed in enqueue order immediately after the run.
func (s *SystemState) Commands() *CommandQueue { return &s.cmds }

// LastRun reports the change tick recorded at the end of the system's
// previous run. Zero before the first run, so everything inserted since world
// creation reads as changed.
func (s *SystemState) LastRun() Tick { return s.lastRun }

// Local returns the system's cached T value, allocating a zero one on first
// use. The value lives as long as the system's registration, not one call.
func Local[T any](s *SystemState) *T {
	key := resourceKey[T]()
	if v, ok := s.locals[key]; ok {
		return v.(*T)
	}
	v := new(T)
	s.locals[key] = v
	return v
}

// funcSystem adapts a SystemFn into a System carrying its own state.
type funcSystem struct {
	fn    SystemFn
	state SystemState
}

// IntoSystem wraps a callable as a stored executable system. Each call
// produces an independent instance with fresh state.
func IntoSystem(fn SystemFn) System {
	return &funcSystem{fn: fn}
}

func (s *funcSystem) Initialize(w *World) {
	s.state.locals = make(map[reflect.Type]any)
	s.state.lastRun = 0
}

func (s *funcSystem) Run(w *World) {
	w.advanceTick()
	s.fn(w, &s.state)
	// Record lastRun after the callable returns: every tick the run itself
	// allocated is now <= lastRun, so a system never observes its own writes
	// as changed. External marks allocate fresh ticks and stay visible.
	s.state.lastRun = w.tick
}

func (s *funcSystem) ApplyDeferred(w *World) {
	s.state.cmds.Apply(w)
}
