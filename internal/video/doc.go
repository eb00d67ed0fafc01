// Package video defines the validated video reference and metadata types
// shared by every pipeline stage.
package video
