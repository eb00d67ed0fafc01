package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AudioPath returns the staging location for a video's extracted audio.
func AudioPath(stagingDir, videoID string) string {
	return filepath.Join(stagingDir, videoID+".mp3")
}

// EnsureDir creates the staging directory if it does not already exist.
func EnsureDir(stagingDir string) error {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return fmt.Errorf("staging directory not configured")
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	return nil
}
