// Package notifications pushes pipeline events to an ntfy topic. With
// no topic configured notifications silently no-op.
package notifications
