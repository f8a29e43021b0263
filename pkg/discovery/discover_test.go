package discovery_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Hansen8601/home-assistant/pkg/config"
	"github.com/Hansen8601/home-assistant/pkg/discovery"
	"github.com/Hansen8601/home-assistant/pkg/discovery/mocks"
)

// recordingBus captures fired events for assertions.
type recordingBus struct {
	events []firedEvent
}

type firedEvent struct {
	eventType string
	data      map[string]any
}

func (b *recordingBus) Fire(eventType string, data map[string]any) {
	b.events = append(b.events, firedEvent{eventType: eventType, data: data})
}

// discoveredOf extracts the discovered info from a fired payload.
func discoveredOf(t *testing.T, event firedEvent) discovery.Info {
	t.Helper()
	value, ok := event.data[discovery.AttrDiscovered]
	if !ok {
		return nil
	}
	info, ok := value.(discovery.Info)
	if !ok {
		t.Fatalf("discovered has type %T, want Info", value)
	}
	return info
}

func TestDiscoverFiresEvent(t *testing.T) {
	bus := &recordingBus{}
	loader := mocks.NewMockComponentLoader(t)
	cfg := config.Default()
	loader.EXPECT().Ensure("media_player", cfg).Return(nil).Once()

	info := discovery.Info{"host": "192.168.1.5"}
	err := discovery.Discover(bus, loader, "sonos", info, "media_player", cfg)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if len(bus.events) != 1 {
		t.Fatalf("got %d events, want 1", len(bus.events))
	}
	event := bus.events[0]
	if event.eventType != discovery.EventPlatformDiscovered {
		t.Errorf("got event type %q", event.eventType)
	}
	if event.data[discovery.AttrService] != "sonos" {
		t.Errorf("got service %v", event.data[discovery.AttrService])
	}
	discovered := discoveredOf(t, event)
	if discovered["host"] != "192.168.1.5" {
		t.Errorf("got discovered %v", discovered)
	}

	// The payload must not alias the caller's map.
	info["host"] = "changed"
	if discovered["host"] != "192.168.1.5" {
		t.Error("payload aliases caller info")
	}
}

func TestDiscoverWithoutComponent(t *testing.T) {
	bus := &recordingBus{}
	loader := mocks.NewMockComponentLoader(t)
	// No Ensure expectation: an empty component skips loading entirely.

	err := discovery.Discover(bus, loader, "zwave_event", nil, "", config.Default())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if len(bus.events) != 1 {
		t.Fatalf("got %d events, want 1", len(bus.events))
	}
	if _, present := bus.events[0].data[discovery.AttrDiscovered]; present {
		t.Error("nil info should omit the discovered attribute")
	}
}

func TestDiscoverLoadFailureBlocksEvent(t *testing.T) {
	bus := &recordingBus{}
	loader := mocks.NewMockComponentLoader(t)
	loadErr := errors.New("setup failed")
	loader.EXPECT().Ensure("media_player", mock.Anything).Return(loadErr).Once()

	err := discovery.Discover(bus, loader, "sonos", nil, "media_player", config.Default())
	if !errors.Is(err, loadErr) {
		t.Fatalf("got %v, want load error", err)
	}
	if len(bus.events) != 0 {
		t.Errorf("event fired despite load failure: %v", bus.events)
	}
}

func TestDiscoverEmptyService(t *testing.T) {
	bus := &recordingBus{}
	loader := mocks.NewMockComponentLoader(t)

	err := discovery.Discover(bus, loader, "", nil, "", config.Default())
	if !errors.Is(err, discovery.ErrInvalidTarget) {
		t.Errorf("got %v, want ErrInvalidTarget", err)
	}
}

func TestDiscoverInvalidInfo(t *testing.T) {
	bus := &recordingBus{}
	loader := mocks.NewMockComponentLoader(t)

	err := discovery.Discover(bus, loader, "sonos", discovery.Info{"bad": make(chan int)}, "", config.Default())
	if !errors.Is(err, discovery.ErrInvalidInfo) {
		t.Errorf("got %v, want ErrInvalidInfo", err)
	}
	if len(bus.events) != 0 {
		t.Error("event fired for invalid info")
	}
}

func TestLoadPlatformFiresDerivedEvent(t *testing.T) {
	bus := &recordingBus{}
	loader := mocks.NewMockComponentLoader(t)
	cfg := config.Default()
	loader.EXPECT().Ensure("media_player", cfg).Return(nil).Once()

	info := discovery.Info{"host": "192.168.1.5"}
	err := discovery.LoadPlatform(bus, loader, "media_player", "sonos", info, cfg)
	if err != nil {
		t.Fatalf("LoadPlatform failed: %v", err)
	}

	if len(bus.events) != 1 {
		t.Fatalf("got %d events, want 1", len(bus.events))
	}
	event := bus.events[0]
	if event.data[discovery.AttrService] != "load_platform.media_player" {
		t.Errorf("got service %v", event.data[discovery.AttrService])
	}
	discovered := discoveredOf(t, event)
	if discovered[discovery.LoadPlatformKey] != "sonos" {
		t.Errorf("got load_platform %v", discovered[discovery.LoadPlatformKey])
	}
	if discovered["host"] != "192.168.1.5" {
		t.Errorf("got discovered %v", discovered)
	}

	// The caller's map keeps only its own keys.
	if _, present := info[discovery.LoadPlatformKey]; present {
		t.Error("caller info was mutated")
	}
}

func TestLoadPlatformNilInfo(t *testing.T) {
	bus := &recordingBus{}
	loader := mocks.NewMockComponentLoader(t)
	loader.EXPECT().Ensure("light", mock.Anything).Return(nil).Once()

	err := discovery.LoadPlatform(bus, loader, "light", "hue", nil, config.Default())
	if err != nil {
		t.Fatalf("LoadPlatform failed: %v", err)
	}

	discovered := discoveredOf(t, bus.events[0])
	if len(discovered) != 1 || discovered[discovery.LoadPlatformKey] != "hue" {
		t.Errorf("got discovered %v, want exactly {load_platform: hue}", discovered)
	}
}

func TestLoadPlatformInvalidTarget(t *testing.T) {
	bus := &recordingBus{}
	loader := mocks.NewMockComponentLoader(t)

	if err := discovery.LoadPlatform(bus, loader, "", "hue", nil, config.Default()); !errors.Is(err, discovery.ErrInvalidTarget) {
		t.Errorf("empty component: got %v, want ErrInvalidTarget", err)
	}
	if err := discovery.LoadPlatform(bus, loader, "light", "", nil, config.Default()); !errors.Is(err, discovery.ErrInvalidTarget) {
		t.Errorf("empty platform: got %v, want ErrInvalidTarget", err)
	}
	if len(bus.events) != 0 {
		t.Error("event fired for invalid target")
	}
}

func TestLoadPlatformLoadFailureBlocksEvent(t *testing.T) {
	bus := &recordingBus{}
	loader := mocks.NewMockComponentLoader(t)
	loadErr := errors.New("setup failed")
	loader.EXPECT().Ensure("light", mock.Anything).Return(loadErr).Once()

	err := discovery.LoadPlatform(bus, loader, "light", "hue", nil, config.Default())
	if !errors.Is(err, loadErr) {
		t.Fatalf("got %v, want load error", err)
	}
	if len(bus.events) != 0 {
		t.Error("event fired despite load failure")
	}
}
