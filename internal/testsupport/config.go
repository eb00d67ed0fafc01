package testsupport

import (
	"testing"

	"vidscribe/internal/config"
)

// NewConfig returns a config rooted in temp directories with API keys
// filled in so validation passes.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.StagingDir = base + "/staging"
	cfg.Paths.DataDir = base + "/data"
	cfg.Paths.LogDir = base + "/logs"
	cfg.Transcription.APIKey = "test"
	cfg.Gemini.APIKey = "test"
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}
