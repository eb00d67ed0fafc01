// Package staging manages the scratch directory where downloaded audio
// lives between download and transcription. Audio is always transient:
// assets are removed as soon as transcription finishes or fails, and a
// periodic sweep reclaims anything a crashed run left behind.
package staging
