// Package services provides the shared error taxonomy and context carriers
// used across pipeline components and external service clients.
//
// Every error that crosses a component boundary is wrapped with one of the
// exported sentinel markers so callers can classify failures with errors.Is
// without inspecting third-party error types.
package services
