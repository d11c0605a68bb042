// Package logging configures structured logging for the chronoreel daemon
// and CLI.
//
// It wraps log/slog with a console handler tuned for terminal reading, a JSON
// handler for machine consumption, typed attribute helpers, and standardized
// field names so job identifiers, pipeline steps, and correlation IDs appear
// consistently across every component.
//
// Construct loggers through New or NewFromConfig; use WithContext to stamp a
// logger with the fields carried in a request context.
package logging
