package services_test

import (
	"errors"
	"fmt"
	"testing"

	"vidscribe/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrRateLimited, "acquire", "download", "Too many requests; retry later", base)
	if !errors.Is(err, services.ErrRateLimited) {
		t.Fatalf("expected rate limited marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "stage", "op", "message", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestCategory(t *testing.T) {
	cases := []struct {
		marker error
		want   string
	}{
		{services.ErrValidation, "validation"},
		{services.ErrBlocked, "blocked"},
		{services.ErrRateLimited, "rate_limited"},
		{services.ErrUnavailable, "unavailable"},
		{services.ErrTranscription, "transcription"},
		{services.ErrGeneration, "generation"},
		{services.ErrConfiguration, "configuration"},
		{errors.New("anything else"), "transient"},
	}
	for _, tc := range cases {
		err := fmt.Errorf("%w: details", tc.marker)
		if got := services.Category(err); got != tc.want {
			t.Fatalf("Category(%v) = %q, want %q", tc.marker, got, tc.want)
		}
	}
	if got := services.Category(nil); got != "" {
		t.Fatalf("Category(nil) = %q, want empty", got)
	}
}

func TestDetailsStripsMarkerPrefix(t *testing.T) {
	err := services.Wrap(services.ErrUnavailable, "acquire", "probe", "Video removed or private", nil)
	details := services.Details(err)
	if details.Message != "acquire: probe: Video removed or private" {
		t.Fatalf("unexpected message: %q", details.Message)
	}
}

func TestDetailsNil(t *testing.T) {
	if msg := services.Details(nil).Message; msg != "" {
		t.Fatalf("expected empty message, got %q", msg)
	}
}
