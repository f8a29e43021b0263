package eventlog

import (
	"time"
)

// Event records one step of the discovery pipeline.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ScanID identifies the scan run that produced the report (UUID).
	// Empty for events not tied to a specific scan.
	ScanID string `cbor:"2,keyasint,omitempty"`

	// Category classifies the pipeline step.
	Category Category `cbor:"3,keyasint"`

	// Service is the reported service identifier.
	Service string `cbor:"4,keyasint,omitempty"`

	// Component is the owning component, once resolved.
	Component string `cbor:"5,keyasint,omitempty"`

	// Platform is the platform to load, for platform routes.
	Platform string `cbor:"6,keyasint,omitempty"`

	// Info is the discovery metadata attached to the report.
	Info map[string]any `cbor:"7,keyasint,omitempty"`

	// Error is the failure message for CategoryError events.
	Error string `cbor:"8,keyasint,omitempty"`
}

// Category classifies a pipeline event.
type Category uint8

const (
	// CategoryFound indicates the scanner reported a service.
	CategoryFound Category = 0

	// CategoryIgnored indicates a report with no handler (or on the
	// ignore list) was dropped.
	CategoryIgnored Category = 1

	// CategoryDispatched indicates a platform_discovered event was fired.
	CategoryDispatched Category = 2

	// CategoryComponentLoaded indicates a component finished loading.
	CategoryComponentLoaded Category = 3

	// CategoryError indicates a dispatch or load failure.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFound:
		return "FOUND"
	case CategoryIgnored:
		return "IGNORED"
	case CategoryDispatched:
		return "DISPATCHED"
	case CategoryComponentLoaded:
		return "LOADED"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory resolves a category name (as produced by String,
// case-sensitive) back to its value.
func ParseCategory(name string) (Category, bool) {
	switch name {
	case "FOUND":
		return CategoryFound, true
	case "IGNORED":
		return CategoryIgnored, true
	case "DISPATCHED":
		return CategoryDispatched, true
	case "LOADED":
		return CategoryComponentLoaded, true
	case "ERROR":
		return CategoryError, true
	default:
		return 0, false
	}
}
