package video

import "unicode/utf8"

// MaxDescriptionLength bounds the stored description to protect downstream
// prompt size.
const MaxDescriptionLength = 400

// Metadata describes a remote video without downloading any media.
type Metadata struct {
	Title           string
	DurationSeconds int64
	ViewCount       int64
	Description     string
	Uploader        string
	ID              string
}

// Unknown returns the well-defined default record used when a metadata fetch
// fails. Callers branch on field values, never on a missing record: the zero
// duration deliberately passes the pipeline's duration ceiling.
func Unknown() Metadata {
	return Metadata{}
}

// DisplayTitle returns the title, substituting a stable placeholder when the
// fetch produced nothing usable.
func (m Metadata) DisplayTitle() string {
	if m.Title == "" {
		return "Untitled Video"
	}
	return m.Title
}

// DisplayUploader returns the uploader, substituting a placeholder when unknown.
func (m Metadata) DisplayUploader() string {
	if m.Uploader == "" {
		return "Unknown"
	}
	return m.Uploader
}

// TruncateDescription clamps a description to the bounded length.
func TruncateDescription(description string) string {
	return truncateRunes(description, MaxDescriptionLength)
}

// truncateRunes clamps s to at most limit bytes, backing up so a
// multibyte rune is never split.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
