// Package event is a small named-event bus used to report pointer
// interactions from a host plot to its legend.
//
// Handlers are registered per event name ("polygon:mousemove",
// "label:mousemove", ...). On returns a disposer that unregisters exactly
// that handler, so owners can release every subscription they made.
package event

import (
	"sync"
)

// Record is a bag of field values, as carried by plot data.
type Record map[string]any

// Event is a single interaction report.
type Event struct {
	Name string
	// Data is the hovered element's own record (for labels: the label's
	// bound values).
	Data Record
	// Origin is the raw datum behind a hovered mark.
	Origin Record
}

// Handler receives events.
type Handler func(Event)

// Source is anything handlers can subscribe to.
type Source interface {
	On(name string, h Handler) (off func())
}

type listener struct {
	id int
	fn Handler
}

// Bus dispatches events to handlers registered by name.
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[string][]listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]listener)}
}

// On registers h for name and returns its disposer. Calling the disposer
// more than once is harmless.
func (b *Bus) On(name string, h Handler) (off func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.listeners[name] = append(b.listeners[name], listener{id: id, fn: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(name, id) })
	}
}

func (b *Bus) remove(name string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ls := b.listeners[name]
	for i, l := range ls {
		if l.id == id {
			b.listeners[name] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(b.listeners[name]) == 0 {
		delete(b.listeners, name)
	}
}

// Emit delivers ev to the handlers registered for ev.Name, in registration
// order. Handlers run synchronously on the caller's goroutine.
func (b *Bus) Emit(ev Event) {
	b.mu.RLock()
	ls := b.listeners[ev.Name]
	b.mu.RUnlock()

	for _, l := range ls {
		l.fn(ev)
	}
}

// Listeners returns how many handlers are registered for name.
func (b *Bus) Listeners(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}

// Total returns the number of handlers across all names.
func (b *Bus) Total() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, ls := range b.listeners {
		n += len(ls)
	}
	return n
}

var _ Source = (*Bus)(nil)
