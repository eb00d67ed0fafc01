// Package pipeline orchestrates the article pipeline: URL validation,
// metadata lookup, audio transcription, and article generation. Each
// stage reports failures through the shared error taxonomy so callers
// can distinguish user mistakes from upstream blocks and transient
// faults.
package pipeline
