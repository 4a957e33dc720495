// Package logging assembles the structured slog loggers used by the editor
// client and the agentflow CLI.
//
// It owns the console and JSON handlers, level parsing, output fan-out to
// stderr plus rotated log files, and a handful of attribute helpers and
// standard field names so every component tags its lines the same way. A
// no-op logger is provided for tests and for wiring code that cannot fail.
package logging
