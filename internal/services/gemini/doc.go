// Package gemini implements a client for the Gemini generateContent
// API. Safety blocks are a first-class outcome: a blocked generation is
// reported in the Result rather than as an error, so callers can fall
// back to extractive summarization instead of failing the request.
package gemini
