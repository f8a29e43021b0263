package discovery

import (
	"sort"

	"github.com/Hansen8601/home-assistant/pkg/config"
)

// Registry is the static mapping from service identifiers to their owning
// routes. It is read-only after construction; lookups never mutate state.
type Registry struct {
	routes map[string]Route
}

// NewRegistry builds a registry from a route table. The table is copied,
// so later mutation of the argument does not affect the registry.
func NewRegistry(routes map[string]Route) *Registry {
	copied := make(map[string]Route, len(routes))
	for service, route := range routes {
		copied[service] = route
	}
	return &Registry{routes: copied}
}

// DefaultRoutes returns the built-in service table.
func DefaultRoutes() map[string]Route {
	return map[string]Route{
		ServiceNetgear:         {Component: "device_tracker"},
		ServiceWemo:            {Component: "wemo"},
		"philips_hue":          {Component: "light", Platform: "hue"},
		"google_cast":          {Component: "media_player", Platform: "cast"},
		"panasonic_viera":      {Component: "media_player", Platform: "panasonic_viera"},
		"plex_mediaserver":     {Component: "media_player", Platform: "plex"},
		"roku":                 {Component: "media_player", Platform: "roku"},
		"sonos":                {Component: "media_player", Platform: "sonos"},
		"logitech_mediaserver": {Component: "media_player", Platform: "squeezebox"},
	}
}

// DefaultRegistry returns a registry holding the built-in service table.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultRoutes())
}

// RegistryFromConfig builds a registry from the built-in table extended
// and overridden by the configuration's extra services.
func RegistryFromConfig(cfg *config.DiscoveryConfig) *Registry {
	routes := DefaultRoutes()
	if cfg != nil {
		for service, route := range cfg.ExtraServices {
			routes[service] = Route{
				Component: route.Component,
				Platform:  route.Platform,
			}
		}
	}
	return NewRegistry(routes)
}

// Lookup resolves a service identifier. The second return value is false
// for unknown services; that is the defined ignore path, not an error.
func (r *Registry) Lookup(service string) (Route, bool) {
	route, ok := r.routes[service]
	return route, ok
}

// Services returns all known service identifiers, sorted.
func (r *Registry) Services() []string {
	services := make([]string, 0, len(r.routes))
	for service := range r.routes {
		services = append(services, service)
	}
	sort.Strings(services)
	return services
}
