// Package config loads and validates vidscribe configuration.
//
// Configuration is read from a TOML file (default
// ~/.config/vidscribe/config.toml, or ./vidscribe.toml for project-local
// setups) on top of built-in defaults. API keys may be supplied through the
// ASSEMBLYAI_API_KEY and GEMINI_API_KEY environment variables, which take
// precedence over file values.
//
// The resulting Config is constructed once at process start and threaded
// read-only into every component constructor.
package config
