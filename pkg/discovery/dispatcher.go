package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Hansen8601/home-assistant/pkg/config"
	"github.com/Hansen8601/home-assistant/pkg/eventbus"
	"github.com/Hansen8601/home-assistant/pkg/eventlog"
)

// Dispatcher errors.
var (
	// ErrAlreadySetup indicates Setup was called twice.
	ErrAlreadySetup = errors.New("dispatcher already set up")

	// ErrMissingDependency indicates a nil required collaborator.
	ErrMissingDependency = errors.New("missing dispatcher dependency")
)

// State tracks the dispatcher lifecycle. The only legal transition chain is
// StateUninitialized -> StateWaitingForStart -> StateScanning; re-entry into
// StateScanning is rejected, which makes the scan start one-shot.
type State uint8

const (
	// StateUninitialized means Setup has not been called.
	StateUninitialized State = 0

	// StateWaitingForStart means the startup listener is registered.
	StateWaitingForStart State = 1

	// StateScanning means the scanner has been started.
	StateScanning State = 2
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateWaitingForStart:
		return "WAITING_FOR_START"
	case StateScanning:
		return "SCANNING"
	default:
		return "UNKNOWN"
	}
}

// ScanListener receives raw scanner reports. The returned error is the
// listener's dispatch failure; the scanner's failure policy (log-and-continue
// versus abort) is its own concern.
type ScanListener func(service string, info Info) error

// Scanner is the discovery scan collaborator: an independent background
// activity that invokes registered listeners for each discovered service.
// Listeners may be called from arbitrary goroutines.
type Scanner interface {
	// AddListener registers a listener for discovery reports.
	AddListener(listener ScanListener)

	// Start begins periodic scanning. Starting twice is an error.
	Start() error

	// Stop ends scanning and waits for the scan goroutine to exit.
	Stop()
}

// Bus combines the event bus surfaces the dispatcher needs.
type Bus interface {
	Publisher

	// ListenOnce registers a one-shot listener; the returned function
	// removes it early.
	ListenOnce(eventType string, fn eventbus.ListenerFunc) func()
}

// DispatcherConfig carries the dispatcher's collaborators and policy.
type DispatcherConfig struct {
	// Bus is the event bus. Required.
	Bus Bus

	// Loader ensures components are loaded. Required.
	Loader ComponentLoader

	// Scanner produces discovery reports. Required.
	Scanner Scanner

	// Registry maps services to routes. Nil means DefaultRegistry.
	Registry *Registry

	// AppConfig is the full application configuration, passed through
	// to component setup. Nil means config.Default().
	AppConfig *config.Config

	// Logger is the operational logger. Nil means slog.Default().
	Logger *slog.Logger

	// Events records pipeline events. Nil means NoopLogger.
	Events eventlog.Logger

	// ContinueOnLoadError fires the discovery event even when the
	// component load failed. The default aborts the dispatch and
	// surfaces the load error.
	ContinueOnLoadError bool
}

// Dispatcher owns the discovery scan lifecycle. It waits for the
// application start event, starts the scanner exactly once, and serializes
// the resolve-and-route decision for every report the scanner delivers.
type Dispatcher struct {
	// mu is the critical section around registry lookup and the
	// dispatch decision. It is not held across component loads or
	// event publication, so slow setups never stall the scan thread.
	mu    sync.Mutex
	state State

	bus      Bus
	loader   ComponentLoader
	scanner  Scanner
	registry *Registry
	appCfg   *config.Config
	logger   *slog.Logger
	events   eventlog.Logger

	continueOnLoadError bool
	removeStart         func()
}

// NewDispatcher creates a dispatcher from its collaborators.
func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	if cfg.Bus == nil {
		return nil, fmt.Errorf("%w: bus", ErrMissingDependency)
	}
	if cfg.Loader == nil {
		return nil, fmt.Errorf("%w: loader", ErrMissingDependency)
	}
	if cfg.Scanner == nil {
		return nil, fmt.Errorf("%w: scanner", ErrMissingDependency)
	}

	registry := cfg.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	appCfg := cfg.AppConfig
	if appCfg == nil {
		appCfg = config.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	events := cfg.Events
	if events == nil {
		events = eventlog.NoopLogger{}
	}

	return &Dispatcher{
		state:               StateUninitialized,
		bus:                 cfg.Bus,
		loader:              cfg.Loader,
		scanner:             cfg.Scanner,
		registry:            registry,
		appCfg:              appCfg,
		logger:              logger,
		events:              events,
		continueOnLoadError: cfg.ContinueOnLoadError,
	}, nil
}

// Setup registers the one-shot startup listener. Scanning begins when the
// application start event fires. Calling Setup more than once is an error.
func (d *Dispatcher) Setup() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateUninitialized {
		return fmt.Errorf("%w (state %s)", ErrAlreadySetup, d.state)
	}
	d.state = StateWaitingForStart
	d.removeStart = d.bus.ListenOnce(eventbus.EventStart, d.onStart)
	return nil
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Stop removes a pending startup listener and stops the scanner if it was
// started. Stop does not reset the state machine; a stopped dispatcher is
// not reusable.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	state := d.state
	remove := d.removeStart
	d.removeStart = nil
	d.mu.Unlock()

	if remove != nil {
		remove()
	}
	if state == StateScanning {
		d.scanner.Stop()
	}
}

// onStart transitions to scanning. The bus's once-listener guarantees at
// most one delivery; the state check rejects any other path back in.
func (d *Dispatcher) onStart(eventbus.Event) {
	d.mu.Lock()
	if d.state != StateWaitingForStart {
		d.mu.Unlock()
		return
	}
	d.state = StateScanning
	d.mu.Unlock()

	d.scanner.AddListener(d.HandleService)
	if err := d.scanner.Start(); err != nil {
		d.logger.Error("failed to start discovery scan", "error", err)
	}
}

// HandleService dispatches one discovery report. It is the listener the
// dispatcher registers with the scanner; reports may arrive from arbitrary
// goroutines concurrently.
//
// Unknown and ignored services return nil: most discovered services are
// intentionally unhandled. Component load failures propagate unless
// ContinueOnLoadError is set, in which case the event still fires.
func (d *Dispatcher) HandleService(service string, info Info) error {
	if err := info.Validate(); err != nil {
		return fmt.Errorf("service %q: %w", service, err)
	}

	// Lock covers lookup and the dispatch decision only.
	d.mu.Lock()
	if d.appCfg.Ignored(service) {
		d.mu.Unlock()
		d.logger.Info("ignoring discovered service", "service", service)
		d.logEvent(eventlog.Event{Category: eventlog.CategoryIgnored, Service: service})
		return nil
	}

	route, ok := d.registry.Lookup(service)
	if !ok {
		d.mu.Unlock()
		// Not an error: we simply do not handle this service.
		d.logger.Info("found new service without handler", "service", service)
		d.logEvent(eventlog.Event{Category: eventlog.CategoryIgnored, Service: service})
		return nil
	}
	discovered := info.Copy()
	d.mu.Unlock()

	d.logger.Info("found new service",
		"service", service,
		"component", route.Component,
		"platform", route.Platform)

	if route.HasPlatform() {
		return d.dispatchPlatform(service, route, discovered)
	}
	return d.dispatchDirect(service, route, discovered)
}

// dispatchDirect fires the event under the original service name, loading
// the owning component first when the route names one.
func (d *Dispatcher) dispatchDirect(service string, route Route, discovered Info) error {
	if route.Component != "" {
		if err := d.ensureComponent(service, route.Component); err != nil {
			return err
		}
	}

	fireDiscovered(d.bus, service, discovered)
	d.logEvent(eventlog.Event{
		Category:  eventlog.CategoryDispatched,
		Service:   service,
		Component: route.Component,
		Info:      discovered,
	})
	return nil
}

// dispatchPlatform loads the owning component and fires the derived
// load_platform event.
func (d *Dispatcher) dispatchPlatform(service string, route Route, discovered Info) error {
	data, eventService, err := buildLoadPlatform(route.Component, route.Platform, discovered)
	if err != nil {
		return fmt.Errorf("service %q: %w", service, err)
	}

	if err := d.ensureComponent(service, route.Component); err != nil {
		return err
	}

	fireDiscovered(d.bus, eventService, data)
	d.logEvent(eventlog.Event{
		Category:  eventlog.CategoryDispatched,
		Service:   eventService,
		Component: route.Component,
		Platform:  route.Platform,
		Info:      data,
	})
	return nil
}

// ensureComponent loads a component, applying the configured load-failure
// policy. A nil return means dispatch may proceed to publication.
func (d *Dispatcher) ensureComponent(service, name string) error {
	err := d.loader.Ensure(name, d.appCfg)
	if err == nil {
		d.logEvent(eventlog.Event{
			Category:  eventlog.CategoryComponentLoaded,
			Service:   service,
			Component: name,
		})
		return nil
	}

	d.logEvent(eventlog.Event{
		Category:  eventlog.CategoryError,
		Service:   service,
		Component: name,
		Error:     err.Error(),
	})

	if d.continueOnLoadError {
		d.logger.Warn("component load failed, publishing anyway",
			"service", service, "component", name, "error", err)
		return nil
	}
	return fmt.Errorf("service %q: %w", service, err)
}

// logEvent stamps and records a pipeline event.
func (d *Dispatcher) logEvent(event eventlog.Event) {
	event.Timestamp = time.Now()
	d.events.Log(event)
}
