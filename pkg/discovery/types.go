package discovery

import (
	"errors"
	"fmt"
)

// Event channel and payload key constants.
const (
	// EventPlatformDiscovered is the event type both dispatch paths
	// publish on.
	EventPlatformDiscovered = "platform_discovered"

	// AttrService is the payload key holding the service identifier.
	// Always present.
	AttrService = "service"

	// AttrDiscovered is the payload key holding the discovery metadata.
	// Absent means a component-scoped notification with no metadata.
	AttrDiscovered = "discovered"

	// LoadPlatformKey is the Info key naming the platform to load.
	LoadPlatformKey = "load_platform"

	// LoadPlatformPrefix prefixes the component name in the service
	// field of platform-load events.
	LoadPlatformPrefix = LoadPlatformKey + "."
)

// Known service identifiers with non-obvious names.
const (
	// ServiceWemo identifies Belkin WeMo devices.
	ServiceWemo = "belkin_wemo"

	// ServiceNetgear identifies Netgear routers.
	ServiceNetgear = "netgear_router"
)

// Discovery errors.
var (
	// ErrInvalidInfo indicates discovery metadata outside the allowed
	// value types.
	ErrInvalidInfo = errors.New("invalid discovery info")

	// ErrInvalidTarget indicates an empty component or platform name.
	ErrInvalidTarget = errors.New("component and platform must be non-empty")
)

// Info is the open key-value metadata attached to a discovery report
// (host, port, model, ...). Keys are strings; values are restricted to a
// closed union: string, bool, integers, floats, slices of those, and
// nested string-keyed maps. Validate enforces the union at the boundary.
type Info map[string]any

// Validate checks that all values are within the allowed union.
// Malformed info is an error, never silently coerced.
func (i Info) Validate() error {
	for key, value := range i {
		if err := validateValue(value); err != nil {
			return fmt.Errorf("%w: key %q: %v", ErrInvalidInfo, key, err)
		}
	}
	return nil
}

func validateValue(value any) error {
	switch v := value.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return nil
	case []any:
		for idx, elem := range v {
			if err := validateValue(elem); err != nil {
				return fmt.Errorf("index %d: %v", idx, err)
			}
		}
		return nil
	case []string:
		return nil
	case Info:
		return v.Validate()
	case map[string]any:
		return Info(v).Validate()
	default:
		return fmt.Errorf("unsupported type %T", value)
	}
}

// Copy returns a deep copy. Mutating the original afterwards does not
// affect the copy, so dispatched events never alias caller-owned maps.
// Copy of nil returns nil.
func (i Info) Copy() Info {
	if i == nil {
		return nil
	}
	out := make(Info, len(i))
	for key, value := range i {
		out[key] = copyValue(value)
	}
	return out
}

func copyValue(value any) any {
	switch v := value.(type) {
	case Info:
		return v.Copy()
	case map[string]any:
		return map[string]any(Info(v).Copy())
	case []any:
		out := make([]any, len(v))
		for idx, elem := range v {
			out[idx] = copyValue(elem)
		}
		return out
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	default:
		// Remaining union members are value types.
		return v
	}
}

// Route names the owner of a discoverable service: the component that
// handles it and, optionally, the platform to load under that component.
type Route struct {
	// Component is the owning component name.
	Component string

	// Platform is the platform to load dynamically. Empty means the
	// service maps directly to a component-level event.
	Platform string
}

// HasPlatform reports whether the route requires a platform load.
func (r Route) HasPlatform() bool {
	return r.Platform != ""
}

// LoadPlatformService returns the event service name used when loading a
// platform under the named component.
func LoadPlatformService(component string) string {
	return LoadPlatformPrefix + component
}
