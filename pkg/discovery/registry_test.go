package discovery_test

import (
	"sort"
	"testing"

	"github.com/Hansen8601/home-assistant/pkg/config"
	"github.com/Hansen8601/home-assistant/pkg/discovery"
)

func TestDefaultRegistryRoutes(t *testing.T) {
	registry := discovery.DefaultRegistry()

	route, ok := registry.Lookup("sonos")
	if !ok {
		t.Fatal("sonos not in default registry")
	}
	if route.Component != "media_player" || route.Platform != "sonos" {
		t.Errorf("got %+v, want media_player/sonos", route)
	}

	route, ok = registry.Lookup(discovery.ServiceWemo)
	if !ok {
		t.Fatal("belkin_wemo not in default registry")
	}
	if route.Component != "wemo" || route.HasPlatform() {
		t.Errorf("got %+v, want direct wemo route", route)
	}

	if _, ok := registry.Lookup("unknown_gadget"); ok {
		t.Error("unknown service resolved")
	}
}

func TestNewRegistryCopiesTable(t *testing.T) {
	routes := map[string]discovery.Route{
		"sonos": {Component: "media_player", Platform: "sonos"},
	}
	registry := discovery.NewRegistry(routes)

	routes["sonos"] = discovery.Route{Component: "changed"}

	route, _ := registry.Lookup("sonos")
	if route.Component != "media_player" {
		t.Errorf("registry aliased the input table: %+v", route)
	}
}

func TestRegistryFromConfig(t *testing.T) {
	cfg := &config.DiscoveryConfig{
		ExtraServices: map[string]config.RouteConfig{
			// New service.
			"denon_receiver": {Component: "media_player", Platform: "denon"},
			// Override of a built-in route.
			"sonos": {Component: "media_player", Platform: "sonos_custom"},
		},
	}

	registry := discovery.RegistryFromConfig(cfg)

	route, ok := registry.Lookup("denon_receiver")
	if !ok || route.Platform != "denon" {
		t.Errorf("extra service not added: %+v ok=%v", route, ok)
	}

	route, _ = registry.Lookup("sonos")
	if route.Platform != "sonos_custom" {
		t.Errorf("built-in route not overridden: %+v", route)
	}

	// Built-ins not mentioned in the config survive.
	if _, ok := registry.Lookup("philips_hue"); !ok {
		t.Error("built-in route lost")
	}
}

func TestRegistryFromConfigNil(t *testing.T) {
	registry := discovery.RegistryFromConfig(nil)
	if _, ok := registry.Lookup("sonos"); !ok {
		t.Error("nil config should yield the default table")
	}
}

func TestRegistryServicesSorted(t *testing.T) {
	services := discovery.DefaultRegistry().Services()
	if len(services) == 0 {
		t.Fatal("no services in default registry")
	}
	if !sort.StringsAreSorted(services) {
		t.Errorf("services not sorted: %v", services)
	}
}
