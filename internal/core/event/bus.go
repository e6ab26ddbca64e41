// Package event provides a double-buffered typed event bus. Events emitted
// during tick N become readable in tick N+1, after SwapBuffers rotates the
// buffers at tick start. The simulation is single-threaded, so the bus needs
// no locking.
package event

import "reflect"

// Bus is stored as a world resource; systems emit into the back buffer and
// a first-phase system swaps and dispatches.
type Bus struct {
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]func(any)
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

func eventKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event into the back buffer; it is delivered after the next
// buffer swap.
func Emit[T any](b *Bus, ev T) {
	key := eventKey[T]()
	b.back[key] = append(b.back[key], ev)
}

// Subscribe registers a handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	key := eventKey[T]()
	b.handlers[key] = append(b.handlers[key], func(ev any) {
		fn(ev.(T))
	})
}

// SwapBuffers rotates back to front and clears the new back buffer. Call once
// at tick start, before DispatchAll.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// DispatchAll delivers every front-buffer event to its subscribers.
func (b *Bus) DispatchAll() {
	for key, events := range b.front {
		handlers := b.handlers[key]
		for _, ev := range events {
			for _, h := range handlers {
				h(ev)
			}
		}
	}
}

// Pending reports how many events of type T are waiting in the back buffer.
func Pending[T any](b *Bus) int {
	return len(b.back[eventKey[T]()])
}
