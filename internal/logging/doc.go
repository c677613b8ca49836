// Package logging assembles structured slog loggers and formatting helpers
// used across splatply.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so conversion code can tag log
// lines with the run correlation ID and the timestep being written. The
// package also provides a no-op logger for tests and library defaults.
package logging
