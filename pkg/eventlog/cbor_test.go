package eventlog

import (
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	event := Event{
		Timestamp: time.Now().Round(0),
		ScanID:    "7e57ab1e-0000-4000-8000-000000000001",
		Category:  CategoryDispatched,
		Service:   "load_platform.media_player",
		Component: "media_player",
		Platform:  "sonos",
		Info: map[string]any{
			"host": "192.168.1.5",
			"port": uint64(1400),
		},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(event.Timestamp) {
		t.Errorf("timestamp changed: %v != %v", decoded.Timestamp, event.Timestamp)
	}
	if decoded.ScanID != event.ScanID {
		t.Errorf("got scan ID %q", decoded.ScanID)
	}
	if decoded.Category != CategoryDispatched {
		t.Errorf("got category %s", decoded.Category)
	}
	if decoded.Service != event.Service || decoded.Component != event.Component || decoded.Platform != event.Platform {
		t.Errorf("got %q %q %q", decoded.Service, decoded.Component, decoded.Platform)
	}
	if decoded.Info["host"] != "192.168.1.5" {
		t.Errorf("got info host %v", decoded.Info["host"])
	}
	if decoded.Info["port"] != uint64(1400) {
		t.Errorf("got info port %v (%T)", decoded.Info["port"], decoded.Info["port"])
	}
}

func TestEncodeOmitsEmptyFields(t *testing.T) {
	minimal := Event{Timestamp: time.Now(), Category: CategoryFound}
	full := Event{
		Timestamp: minimal.Timestamp,
		Category:  CategoryFound,
		ScanID:    "scan",
		Service:   "sonos",
		Component: "media_player",
		Platform:  "sonos",
		Error:     "boom",
	}

	minimalData, err := EncodeEvent(minimal)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	fullData, err := EncodeEvent(full)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	if len(minimalData) >= len(fullData) {
		t.Errorf("minimal event (%d bytes) not smaller than full event (%d bytes)",
			len(minimalData), len(fullData))
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00, 0x01}); err == nil {
		t.Error("expected error decoding garbage")
	}
}
