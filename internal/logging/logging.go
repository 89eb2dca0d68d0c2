// Package logging defines the structured-logging interface used across the
// client, the CLI and the dev backend, plus a log/slog implementation.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "logged in", "role", role, "route", route)
type Logger interface {
	// Debug logs routine steps (token resolution, retries).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs session transitions.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
