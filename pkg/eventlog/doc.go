// Package eventlog provides structured logging of the discovery pipeline.
//
// This package defines the Logger interface and Event type for capturing
// every step a discovery report takes: found by the scanner, ignored,
// dispatched to the event bus, component loaded, or failed. It is separate
// from operational logging (slog) - the event log is a complete
// machine-readable trace for debugging and analysis.
//
// # Basic Usage
//
// Subsystems take a Logger; applications pick the implementation:
//
//	// For development: log to console via slog
//	events := eventlog.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	events, _ := eventlog.NewFileLogger("/var/log/hass/discovery.mlog")
//
//	// Both: use MultiLogger
//	events := eventlog.NewMultiLogger(
//	    eventlog.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files use CBOR encoding with integer keys and the .mlog extension.
// The hass-log CLI tool provides viewing, filtering, and export.
package eventlog
