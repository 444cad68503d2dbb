// Package logging assembles structured slog loggers used across samecast.
//
// It owns the console and JSON handlers, level parsing, and the output
// plumbing that tees log lines to stderr and a size-rotated file. Context
// helpers tag lines with the component and HTTP request id carried on a
// context, and NewNop gives tests and optional wiring a logger that cannot fail.
package logging
