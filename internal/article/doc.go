// Package article persists generated articles in a local SQLite
// database so they survive process restarts and can be listed and
// fetched through the CLI and HTTP API.
package article
