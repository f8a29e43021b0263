package eventbus

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Well-known event types.
const (
	// EventStart is fired once when the application has finished
	// starting up. Subsystems that must not run before all components
	// had a chance to register listeners wait for this event.
	EventStart = "application_started"
)

// Event is a single published occurrence on the bus.
type Event struct {
	// Type names the event channel.
	Type string

	// Data is the event payload. Read-only for listeners.
	Data map[string]any

	// Time is when the event was fired.
	Time time.Time
}

// ListenerFunc handles a delivered event.
type ListenerFunc func(event Event)

// registration is one listener entry for an event type.
type registration struct {
	id   uuid.UUID
	fn   ListenerFunc
	once bool

	// fired guards one-shot listeners against concurrent delivery.
	fired atomic.Bool
}

// Bus is a synchronous in-process event bus.
// The zero value is not usable; use New.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]*registration
}

// New creates an empty event bus.
func New() *Bus {
	return &Bus{
		listeners: make(map[string][]*registration),
	}
}

// Listen registers a persistent listener for an event type.
// The returned function removes the listener; calling it more than once
// is harmless.
func (b *Bus) Listen(eventType string, fn ListenerFunc) func() {
	return b.register(eventType, fn, false)
}

// ListenOnce registers a listener that is delivered at most one event.
// The listener is removed before it is invoked, so an event fired from
// within the listener cannot trigger it again. The returned function
// removes the listener early if it has not fired yet.
func (b *Bus) ListenOnce(eventType string, fn ListenerFunc) func() {
	return b.register(eventType, fn, true)
}

func (b *Bus) register(eventType string, fn ListenerFunc, once bool) func() {
	reg := &registration{
		id:   uuid.New(),
		fn:   fn,
		once: once,
	}

	b.mu.Lock()
	b.listeners[eventType] = append(b.listeners[eventType], reg)
	b.mu.Unlock()

	return func() {
		b.remove(eventType, reg.id)
	}
}

// Fire publishes an event, invoking all matching listeners on the calling
// goroutine in registration order. Panics from listeners propagate to the
// caller.
func (b *Bus) Fire(eventType string, data map[string]any) {
	event := Event{
		Type: eventType,
		Data: data,
		Time: time.Now(),
	}

	// Snapshot so listeners can mutate registrations during delivery.
	b.mu.RLock()
	regs := make([]*registration, len(b.listeners[eventType]))
	copy(regs, b.listeners[eventType])
	b.mu.RUnlock()

	for _, reg := range regs {
		if reg.once {
			if !reg.fired.CompareAndSwap(false, true) {
				continue
			}
			b.remove(eventType, reg.id)
		}
		reg.fn(event)
	}
}

// ListenerCount returns the number of listeners registered for an event type.
func (b *Bus) ListenerCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[eventType])
}

func (b *Bus) remove(eventType string, id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.listeners[eventType]
	for i, reg := range regs {
		if reg.id == id {
			b.listeners[eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}
