// Package transcribe turns a video reference into transcript text by
// downloading the audio track and sending it to the transcription
// service. Staged audio is transient and is removed on every exit path.
package transcribe
