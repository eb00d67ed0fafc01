// Package logging provides slog construction and shared structured-field
// conventions. It offers a compact console handler for interactive use, a
// JSON handler for machine consumption, attribute helpers, and context-aware
// logger derivation so request/stage/video identifiers flow into every record.
package logging
