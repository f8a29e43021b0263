// Command hass-discovery runs the network service discovery daemon.
//
// The daemon browses the local network for known services, loads the
// components that handle them, and fires platform_discovered events on the
// in-process bus. Its main use is exercising and debugging the discovery
// pipeline outside a full application.
//
// Usage:
//
//	hass-discovery [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-event-log string  CBOR event log path (overrides config)
//
// Examples:
//
//	# Run with defaults, tracing every pipeline step to the console
//	hass-discovery -log-level debug
//
//	# Run with a config file and a binary event log for later analysis
//	hass-discovery -config /etc/hass/discovery.yaml -event-log discovery.mlog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hansen8601/home-assistant/pkg/component"
	"github.com/Hansen8601/home-assistant/pkg/config"
	"github.com/Hansen8601/home-assistant/pkg/discovery"
	"github.com/Hansen8601/home-assistant/pkg/eventbus"
	"github.com/Hansen8601/home-assistant/pkg/eventlog"
	"github.com/Hansen8601/home-assistant/pkg/scanner"
)

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	eventLogPath := flag.String("event-log", "", "CBOR event log path (overrides config)")
	flag.Parse()

	logger := newLogger(*logLevel)
	slog.SetDefault(logger)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("failed to load configuration", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *eventLogPath != "" {
		cfg.Discovery.EventLog = *eventLogPath
	}

	var events eventlog.Logger = eventlog.NoopLogger{}
	if cfg.Discovery.EventLog != "" {
		fileLogger, err := eventlog.NewFileLogger(cfg.Discovery.EventLog)
		if err != nil {
			logger.Error("failed to open event log", "path", cfg.Discovery.EventLog, "error", err)
			os.Exit(1)
		}
		defer fileLogger.Close()
		events = fileLogger
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		events = eventlog.NewMultiLogger(events, eventlog.NewSlogAdapter(logger))
	}

	bus := eventbus.New()
	loader := component.NewLoader()
	registry := discovery.RegistryFromConfig(&cfg.Discovery)
	registerComponents(bus, loader, registry, logger)

	scan, err := scanner.New(scanner.Config{
		Backend:  scanner.NewMDNSBackend(scanner.MDNSConfig{}),
		Interval: cfg.ScanInterval(),
		Logger:   logger,
		Events:   events,
	})
	if err != nil {
		logger.Error("failed to create scanner", "error", err)
		os.Exit(1)
	}

	dispatcher, err := discovery.NewDispatcher(discovery.DispatcherConfig{
		Bus:                 bus,
		Loader:              loader,
		Scanner:             scan,
		Registry:            registry,
		AppConfig:           cfg,
		Logger:              logger,
		Events:              events,
		ContinueOnLoadError: cfg.Discovery.ContinueOnLoadError,
	})
	if err != nil {
		logger.Error("failed to create dispatcher", "error", err)
		os.Exit(1)
	}
	if err := dispatcher.Setup(); err != nil {
		logger.Error("failed to set up dispatcher", "error", err)
		os.Exit(1)
	}

	bus.Fire(eventbus.EventStart, nil)
	logger.Info("discovery running",
		"interval", cfg.ScanInterval(),
		"services", registry.Services())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	dispatcher.Stop()
}

// registerComponents installs a minimal setup function for every component
// the registry routes to. Each setup subscribes to its component's
// load_platform service, which is all a component needs to receive
// dynamically loaded platforms. Real applications replace these with their
// actual component setups.
func registerComponents(
	bus *eventbus.Bus, loader *component.Loader,
	registry *discovery.Registry, logger *slog.Logger,
) {
	components := make(map[string]struct{})
	for _, service := range registry.Services() {
		if route, ok := registry.Lookup(service); ok && route.Component != "" {
			components[route.Component] = struct{}{}
		}
	}

	for name := range components {
		setup := func(cfg *config.Config) error {
			discovery.ListenService(bus, discovery.LoadPlatformService(name),
				func(service string, discovered discovery.Info) {
					logger.Info("platform requested",
						"component", name,
						"platform", discovered[discovery.LoadPlatformKey])
				})
			logger.Info("component ready", "component", name)
			return nil
		}
		if err := loader.Register(name, setup); err != nil {
			logger.Error("failed to register component", "component", name, "error", err)
		}
	}
}

// newLogger builds a text slog logger at the requested level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Unknown log level %q, using info\n", level)
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
