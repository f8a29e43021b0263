package eventlog

import (
	"context"
	"log/slog"
)

// SlogAdapter writes pipeline events to an slog.Logger.
// Useful for development when you want to see discovery traffic in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}

	if event.ScanID != "" {
		attrs = append(attrs, slog.String("scan_id", event.ScanID))
	}
	if event.Service != "" {
		attrs = append(attrs, slog.String("service", event.Service))
	}
	if event.Component != "" {
		attrs = append(attrs, slog.String("component", event.Component))
	}
	if event.Platform != "" {
		attrs = append(attrs, slog.String("platform", event.Platform))
	}
	if len(event.Info) > 0 {
		attrs = append(attrs, slog.Any("info", event.Info))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "discovery", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
