package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrMetadata      = errors.New("metadata unavailable")
	ErrBlocked       = errors.New("blocked by remote")
	ErrRateLimited   = errors.New("rate limited")
	ErrUnavailable   = errors.New("video unavailable")
	ErrTranscription = errors.New("transcription failure")
	ErrGeneration    = errors.New("generation failure")
	ErrConfiguration = errors.New("configuration error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Category names the failure class of a pipeline error so callers can advise
// the user differently (e.g. retry later for rate limits).
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrMetadata):
		return "metadata"
	case errors.Is(err, ErrBlocked):
		return "blocked"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrTranscription):
		return "transcription"
	case errors.Is(err, ErrGeneration):
		return "generation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "transient"
	}
}

// ErrorDetails carries the user-facing portion of a wrapped stage error.
type ErrorDetails struct {
	Message string
}

// Details extracts the human-readable message from a wrapped stage error,
// stripping the sentinel marker prefix when present.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	message := strings.TrimSpace(err.Error())
	for _, marker := range []error{
		ErrValidation,
		ErrMetadata,
		ErrBlocked,
		ErrRateLimited,
		ErrUnavailable,
		ErrTranscription,
		ErrGeneration,
		ErrConfiguration,
		ErrTransient,
	} {
		prefix := marker.Error() + ": "
		if strings.HasPrefix(message, prefix) {
			message = strings.TrimPrefix(message, prefix)
			break
		}
	}
	return ErrorDetails{Message: message}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
