// Package generate turns transcripts into article HTML. The primary
// path prompts a generative model; when the model withholds output on
// safety grounds the package builds a deterministic extractive article
// from the transcript instead, so generation as a whole only fails on
// mechanical errors.
package generate
