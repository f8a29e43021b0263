package discovery

import (
	"fmt"

	"github.com/Hansen8601/home-assistant/pkg/config"
)

// Publisher is the firing side of the event bus.
type Publisher interface {
	// Fire publishes an event synchronously on the calling goroutine.
	Fire(eventType string, data map[string]any)
}

// ComponentLoader ensures a component is loaded before events that depend
// on its listeners fire. Implementations must be idempotent and safe for
// concurrent use; loading an already-loaded component is a no-op.
type ComponentLoader interface {
	Ensure(name string, cfg *config.Config) error
}

// Discover fires a platform_discovered event for a service. When component
// is non-empty, that component is loaded first so its listeners are
// registered before the event reaches them. A component load failure
// returns without firing.
//
// The discovered info is deep-copied into the payload; callers keep
// ownership of their map.
func Discover(
	bus Publisher, loader ComponentLoader,
	service string, discovered Info, component string, cfg *config.Config,
) error {
	if service == "" {
		return fmt.Errorf("%w: empty service", ErrInvalidTarget)
	}
	if err := discovered.Validate(); err != nil {
		return err
	}

	if component != "" {
		if err := loader.Ensure(component, cfg); err != nil {
			return err
		}
	}

	fireDiscovered(bus, service, discovered.Copy())
	return nil
}

// LoadPlatform requests dynamic loading of a platform under a component.
//
// It builds the event info from a deep copy of info (or an empty map),
// always setting the load_platform key to the platform name, loads the
// component, and fires one platform_discovered event with service
// "load_platform.<component>". Each call fires exactly one event, even
// with identical arguments; only the component load is idempotent, and
// that guarantee comes from the loader.
func LoadPlatform(
	bus Publisher, loader ComponentLoader,
	component, platform string, info Info, cfg *config.Config,
) error {
	data, service, err := buildLoadPlatform(component, platform, info)
	if err != nil {
		return err
	}

	if err := loader.Ensure(component, cfg); err != nil {
		return err
	}

	fireDiscovered(bus, service, data)
	return nil
}

// buildLoadPlatform validates the target and constructs the event info
// and service name for a platform load.
func buildLoadPlatform(component, platform string, info Info) (Info, string, error) {
	if component == "" || platform == "" {
		return nil, "", ErrInvalidTarget
	}
	if err := info.Validate(); err != nil {
		return nil, "", err
	}

	data := info.Copy()
	if data == nil {
		data = make(Info, 1)
	}
	data[LoadPlatformKey] = platform

	return data, LoadPlatformService(component), nil
}

// fireDiscovered publishes a platform_discovered payload. The discovered
// map must already be owned by the event (copied from caller data).
func fireDiscovered(bus Publisher, service string, discovered Info) {
	data := map[string]any{AttrService: service}
	if discovered != nil {
		data[AttrDiscovered] = discovered
	}
	bus.Fire(EventPlatformDiscovered, data)
}
