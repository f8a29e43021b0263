// Package config loads and validates the application configuration.
//
// The configuration is a single YAML file with a discovery section for the
// scan pipeline and an opaque per-component section that is passed through
// to component setup functions untouched.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration errors.
var (
	// ErrInvalidInterval indicates a non-positive scan interval.
	ErrInvalidInterval = errors.New("scan interval must be positive")

	// ErrInvalidRoute indicates an extra service entry without a component.
	ErrInvalidRoute = errors.New("extra service route requires a component")
)

// DefaultScanInterval is the scan period in seconds when none is configured.
const DefaultScanInterval = 300

// Config is the root application configuration.
type Config struct {
	// Discovery configures the discovery scan pipeline.
	Discovery DiscoveryConfig `yaml:"discovery"`

	// Components holds opaque per-component configuration sections.
	// The discovery core never interprets these; they are handed to
	// component setup functions as-is.
	Components map[string]map[string]any `yaml:"components"`
}

// DiscoveryConfig configures the discovery dispatcher and scanner.
type DiscoveryConfig struct {
	// ScanInterval is the scan period in seconds. Defaults to
	// DefaultScanInterval when zero.
	ScanInterval int `yaml:"scan_interval"`

	// ContinueOnLoadError controls whether a component load failure
	// still publishes the discovery event (true) or aborts the
	// dispatch (false, the default).
	ContinueOnLoadError bool `yaml:"continue_on_load_error"`

	// Ignore lists service identifiers that are never dispatched,
	// even when the registry knows them.
	Ignore []string `yaml:"ignore"`

	// ExtraServices extends or overrides the built-in service registry.
	ExtraServices map[string]RouteConfig `yaml:"extra_services"`

	// EventLog is the path of the CBOR discovery event log.
	// Empty disables event logging.
	EventLog string `yaml:"event_log"`
}

// RouteConfig maps a service identifier to its owning component and,
// optionally, the platform to load under it.
type RouteConfig struct {
	// Component is the owning component name.
	Component string `yaml:"component"`

	// Platform is the platform to load dynamically. Empty means the
	// service maps directly to a component-level event.
	Platform string `yaml:"platform"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			ScanInterval: DefaultScanInterval,
		},
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Discovery.ScanInterval <= 0 {
		return fmt.Errorf("discovery: %w (got %d)", ErrInvalidInterval, c.Discovery.ScanInterval)
	}
	for service, route := range c.Discovery.ExtraServices {
		if route.Component == "" {
			return fmt.Errorf("discovery: extra service %q: %w", service, ErrInvalidRoute)
		}
	}
	return nil
}

// ScanInterval returns the scan period as a duration.
func (c *Config) ScanInterval() time.Duration {
	interval := c.Discovery.ScanInterval
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	return time.Duration(interval) * time.Second
}

// Component returns the opaque configuration section for a component.
// Returns nil when no section exists; callers treat that as empty.
func (c *Config) Component(name string) map[string]any {
	if c.Components == nil {
		return nil
	}
	return c.Components[name]
}

// Ignored reports whether a service identifier is on the ignore list.
func (c *Config) Ignored(service string) bool {
	for _, s := range c.Discovery.Ignore {
		if s == service {
			return true
		}
	}
	return false
}
