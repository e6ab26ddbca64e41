package ecs

import "fmt"

// Command is a mutation recorded during a system's run and applied to the
// world after the run completes.
type Command interface {
	Apply(w *World)
}

// CommandFunc adapts a closure into a Command.
type CommandFunc func(w *World)

func (f CommandFunc) Apply(w *World) { f(w) }

// CommandQueue applies commands in enqueue order. Commands pushed while the
// queue is flushing run in the same flush, after everything already queued.
type CommandQueue struct {
	pending []Command
}

func (q *CommandQueue) Push(c Command) {
	q.pending = append(q.pending, c)
}

func (q *CommandQueue) Len() int { return len(q.pending) }

// Apply drains the queue against w in FIFO order.
func (q *CommandQueue) Apply(w *World) {
	for i := 0; i < len(q.pending); i++ {
		q.pending[i].Apply(w)
	}
	q.pending = q.pending[:0]
}

// RunSystemCommand runs an ad hoc system when applied. The system is built,
// run, and discarded inside the flush, so no state carries over.
type RunSystemCommand struct {
	Fn SystemFn
}

func (c RunSystemCommand) Apply(w *World) {
	w.RunSystem(c.Fn)
}

// RunSystemByIDCommand runs a registered system when applied.
//
// An unknown id panics here instead of propagating: command application has
// no error channel back to the enqueuer yet, and swallowing the failure
// silently would be worse. Route this through a command error report once
// one exists.
type RunSystemByIDCommand struct {
	ID SystemID
}

func (c RunSystemByIDCommand) Apply(w *World) {
	if err := w.RunSystemByID(c.ID); err != nil {
		panic(fmt.Sprintf("ecs: apply deferred run: %v", err))
	}
}

// DespawnCommand removes an entity when applied. Stale ids are a no-op.
type DespawnCommand struct {
	ID EntityID
}

func (c DespawnCommand) Apply(w *World) {
	w.Despawn(c.ID)
}
