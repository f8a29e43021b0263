package scanner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hansen8601/home-assistant/pkg/discovery"
	"github.com/Hansen8601/home-assistant/pkg/eventlog"
)

// Scanner errors.
var (
	// ErrAlreadyStarted indicates Start was called on a running scanner.
	ErrAlreadyStarted = errors.New("scanner already started")

	// ErrMissingBackend indicates a nil backend.
	ErrMissingBackend = errors.New("scanner backend is required")
)

// Timing defaults.
const (
	// DefaultInterval is the period between scan rounds.
	DefaultInterval = 300 * time.Second

	// DefaultScanTimeout bounds a single scan round.
	DefaultScanTimeout = 10 * time.Second
)

// Found is one endpoint discovered during a scan round.
type Found struct {
	// Service is the service identifier the endpoint was classified as.
	Service string

	// Key uniquely identifies the endpoint across rounds, for
	// de-duplication. Typically instance name plus address.
	Key string

	// Info is the discovery metadata (host, port, properties, ...).
	Info discovery.Info
}

// Backend probes the network once and returns everything currently visible.
// Implementations must be safe for repeated calls; de-duplication across
// rounds is the Scanner's concern, not the backend's.
type Backend interface {
	Scan(ctx context.Context) ([]Found, error)
}

// Config configures a Scanner.
type Config struct {
	// Backend performs the actual probing. Required.
	Backend Backend

	// Interval is the period between scan rounds.
	// Defaults to DefaultInterval.
	Interval time.Duration

	// ScanTimeout bounds a single round. Defaults to DefaultScanTimeout.
	ScanTimeout time.Duration

	// Logger is the operational logger. Nil means slog.Default().
	Logger *slog.Logger

	// Events records found endpoints. Nil means NoopLogger.
	Events eventlog.Logger
}

// Scanner runs a Backend periodically and reports newly seen endpoints.
// It runs for the lifetime of the process once started; there is no pause.
type Scanner struct {
	backend     Backend
	interval    time.Duration
	scanTimeout time.Duration
	logger      *slog.Logger
	events      eventlog.Logger

	mu        sync.Mutex
	listeners []discovery.ScanListener
	seen      map[string]struct{}
	started   bool
	scanID    string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scanner from its configuration.
func New(cfg Config) (*Scanner, error) {
	if cfg.Backend == nil {
		return nil, ErrMissingBackend
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.ScanTimeout <= 0 {
		cfg.ScanTimeout = DefaultScanTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Events == nil {
		cfg.Events = eventlog.NoopLogger{}
	}

	return &Scanner{
		backend:     cfg.Backend,
		interval:    cfg.Interval,
		scanTimeout: cfg.ScanTimeout,
		logger:      cfg.Logger,
		events:      cfg.Events,
		seen:        make(map[string]struct{}),
	}, nil
}

// AddListener registers a listener for newly found services. Listeners
// added after Start still receive endpoints found in later rounds.
func (s *Scanner) AddListener(listener discovery.ScanListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Start begins periodic scanning: one round immediately, then one per
// interval. Starting a running scanner is an error.
func (s *Scanner) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.scanID = uuid.NewString()

	// The cancel func must be visible to Stop before the goroutine
	// launches, so a concurrent Stop cannot miss it and leak the loop.
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(ctx)
	return nil
}

// Stop ends scanning and waits for the scan goroutine to exit.
// Stopping a scanner that was never started is a no-op.
func (s *Scanner) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
}

func (s *Scanner) run(ctx context.Context) {
	defer s.wg.Done()

	s.scanOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.scanOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// scanOnce performs one round and reports everything not seen before.
func (s *Scanner) scanOnce(ctx context.Context) {
	scanCtx, cancel := context.WithTimeout(ctx, s.scanTimeout)
	defer cancel()

	results, err := s.backend.Scan(scanCtx)
	if err != nil && ctx.Err() == nil {
		s.logger.Warn("discovery scan failed", "error", err)
	}

	for _, found := range results {
		if !s.markSeen(found.Key) {
			continue
		}

		s.events.Log(eventlog.Event{
			Timestamp: time.Now(),
			ScanID:    s.scanID,
			Category:  eventlog.CategoryFound,
			Service:   found.Service,
			Info:      found.Info,
		})

		for _, listener := range s.snapshotListeners() {
			// Log-and-continue: one failing dispatch must not
			// starve other endpoints of this round.
			if err := listener(found.Service, found.Info); err != nil {
				s.logger.Error("discovery listener failed",
					"service", found.Service, "error", err)
			}
		}
	}
}

// markSeen records an endpoint key, returning false if already known.
func (s *Scanner) markSeen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *Scanner) snapshotListeners() []discovery.ScanListener {
	s.mu.Lock()
	defer s.mu.Unlock()
	listeners := make([]discovery.ScanListener, len(s.listeners))
	copy(listeners, s.listeners)
	return listeners
}

// Compile-time interface satisfaction check.
var _ discovery.Scanner = (*Scanner)(nil)
