// Package component provides registration and idempotent loading of
// application components.
//
// A component is a top-level subsystem identified by name (for example
// "light" or "media_player"). Components register a setup function once at
// process start; Ensure then loads a component on first use. Loading is
// idempotent and safe to call from multiple goroutines: concurrent Ensure
// calls for the same component run its setup exactly once and share the
// result.
package component

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Hansen8601/home-assistant/pkg/config"
)

// Loader errors.
var (
	// ErrUnknownComponent indicates no setup function is registered
	// for the requested component name.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrAlreadyRegistered indicates a duplicate component registration.
	ErrAlreadyRegistered = errors.New("component already registered")

	// ErrInvalidRegistration indicates an empty name or nil setup function.
	ErrInvalidRegistration = errors.New("invalid component registration")
)

// SetupFunc initializes a component. It receives the full application
// configuration and extracts its own section from it.
type SetupFunc func(cfg *config.Config) error

// call tracks one in-flight setup so concurrent Ensure calls can share it.
type call struct {
	done chan struct{}
	err  error
}

// Loader manages component setup functions and their load state.
type Loader struct {
	mu       sync.Mutex
	setups   map[string]SetupFunc
	loaded   map[string]bool
	inflight map[string]*call
}

// NewLoader creates an empty component loader.
func NewLoader() *Loader {
	return &Loader{
		setups:   make(map[string]SetupFunc),
		loaded:   make(map[string]bool),
		inflight: make(map[string]*call),
	}
}

// Register adds a setup function for a component name.
// Registering the same name twice is an error.
func (l *Loader) Register(name string, setup SetupFunc) error {
	if name == "" || setup == nil {
		return fmt.Errorf("%w: empty name or nil setup", ErrInvalidRegistration)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.setups[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	l.setups[name] = setup
	return nil
}

// Ensure loads a component if it is not loaded yet.
//
// The first caller runs the setup function; concurrent callers for the same
// component block until that attempt finishes and share its result. A failed
// setup is not cached: a later Ensure retries it. Ensure returns nil when
// the component is already loaded.
func (l *Loader) Ensure(name string, cfg *config.Config) error {
	l.mu.Lock()

	if l.loaded[name] {
		l.mu.Unlock()
		return nil
	}

	setup, ok := l.setups[name]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownComponent, name)
	}

	if c, running := l.inflight[name]; running {
		l.mu.Unlock()
		<-c.done
		return c.err
	}

	c := &call{done: make(chan struct{})}
	l.inflight[name] = c
	l.mu.Unlock()

	err := setup(cfg)
	if err != nil {
		err = fmt.Errorf("failed to set up component %s: %w", name, err)
	}

	l.mu.Lock()
	c.err = err
	if err == nil {
		l.loaded[name] = true
	}
	delete(l.inflight, name)
	l.mu.Unlock()

	close(c.done)
	return err
}

// Loaded reports whether a component has been loaded successfully.
func (l *Loader) Loaded(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded[name]
}

// LoadedComponents returns the names of all loaded components, sorted.
func (l *Loader) LoadedComponents() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.loaded))
	for name := range l.loaded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
