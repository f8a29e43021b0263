package discovery

import (
	"github.com/Hansen8601/home-assistant/pkg/eventbus"
)

// Subscriber is the listener-registration side of the event bus.
type Subscriber interface {
	// Listen registers a persistent listener; the returned function
	// removes it.
	Listen(eventType string, fn eventbus.ListenerFunc) func()
}

// ListenerFunc handles a filtered discovery notification. The discovered
// info is nil for component-scoped notifications without metadata.
type ListenerFunc func(service string, discovered Info)

// Listen registers a callback invoked whenever one of the given services is
// discovered, regardless of whether the dispatch went through a direct event
// or a platform load (both share the EventPlatformDiscovered channel).
//
// Delivery order among listeners is the bus's registration order; Listen
// adds no ordering of its own. The returned function removes the listener.
func Listen(bus Subscriber, services []string, callback ListenerFunc) func() {
	wanted := make(map[string]struct{}, len(services))
	for _, service := range services {
		wanted[service] = struct{}{}
	}

	return bus.Listen(EventPlatformDiscovered, func(event eventbus.Event) {
		service, ok := event.Data[AttrService].(string)
		if !ok {
			return
		}
		if _, want := wanted[service]; !want {
			return
		}
		callback(service, discoveredFrom(event.Data))
	})
}

// ListenService registers a callback for a single service.
func ListenService(bus Subscriber, service string, callback ListenerFunc) func() {
	return Listen(bus, []string{service}, callback)
}

// discoveredFrom extracts the optional discovered info from a payload.
func discoveredFrom(data map[string]any) Info {
	switch v := data[AttrDiscovered].(type) {
	case Info:
		return v
	case map[string]any:
		return Info(v)
	default:
		return nil
	}
}
