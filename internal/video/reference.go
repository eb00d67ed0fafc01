package video

import (
	"regexp"

	"vidscribe/internal/services"
)

// referencePatterns covers the recognized remote video link shapes: standard
// watch links, short links, embed links, and shorts links. Each requires an
// 11-character identifier drawn from the YouTube id charset.
var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
}

// Reference is a validated identifier for a remote video. It is only
// produced by Parse; downstream components never construct one ad hoc.
type Reference struct {
	url string
	id  string
}

// Validate reports whether raw matches one of the recognized video link
// shapes. It never panics, regardless of input.
func Validate(raw string) bool {
	if raw == "" {
		return false
	}
	for _, pattern := range referencePatterns {
		if pattern.MatchString(raw) {
			return true
		}
	}
	return false
}

// Parse validates raw and returns the Reference carrying the original URL and
// the extracted 11-character video identifier.
func Parse(raw string) (Reference, error) {
	for _, pattern := range referencePatterns {
		if match := pattern.FindStringSubmatch(raw); match != nil {
			return Reference{url: raw, id: match[1]}, nil
		}
	}
	return Reference{}, services.Wrap(
		services.ErrValidation, "validate", "parse reference",
		"Not a recognized video URL", nil)
}

// URL returns the original URL the reference was parsed from.
func (r Reference) URL() string { return r.url }

// ID returns the 11-character remote video identifier.
func (r Reference) ID() string { return r.id }

// IsZero reports whether the reference was never populated by Parse.
func (r Reference) IsZero() bool { return r.id == "" }
