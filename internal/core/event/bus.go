package event

import "reflect"

// Bus is a double-buffered, typed event queue. Events emitted during tick N
// become readable in tick N+1, after SwapBuffers rotates the buffers at the
// tick boundary. The bus shares the store's ownership model: exactly one
// logical writer, no internal locking.
type Bus struct {
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]any
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer for delivery next tick.
func Emit[T any](b *Bus, ev T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.back[t] = append(b.back[t], ev)
}

// Subscribe registers a handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Drain returns and clears the pending front-buffer events of type T
// without touching subscribed handlers. Useful in tests and for systems
// that prefer pull delivery.
func Drain[T any](b *Bus) []T {
	t := reflect.TypeOf((*T)(nil)).Elem()
	pending := b.front[t]
	b.front[t] = b.front[t][:0]
	out := make([]T, 0, len(pending))
	for _, ev := range pending {
		out = append(out, ev.(T))
	}
	return out
}

// SwapBuffers rotates back→front and clears the new back buffer. Called
// once at tick start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// DispatchAll delivers every front-buffer event to its subscribed handlers.
func (b *Bus) DispatchAll() {
	for t, events := range b.front {
		handlers := b.handlers[t]
		for _, ev := range events {
			for _, h := range handlers {
				// Safe: Subscribe and Emit key handlers and events
				// by the same concrete type.
				reflect.ValueOf(h).Call([]reflect.Value{reflect.ValueOf(ev)})
			}
		}
	}
}
