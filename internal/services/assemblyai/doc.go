// Package assemblyai implements a minimal client for the AssemblyAI v2
// transcription API: upload the audio, create a transcript job, then
// poll until the job completes or errors.
package assemblyai
