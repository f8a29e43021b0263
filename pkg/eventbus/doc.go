// Package eventbus implements a synchronous in-process publish/subscribe bus.
//
// Listeners are invoked on the goroutine that calls Fire, in registration
// order. No listener lock is held during delivery, so listeners may register
// further listeners, remove themselves, or fire events without deadlocking.
//
// Event data is shared between all listeners of an event and must be treated
// as read-only. Producers that need to keep mutating a map after firing must
// fire a copy.
package eventbus
