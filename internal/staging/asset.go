package staging

import (
	"log/slog"
	"os"

	"vidscribe/internal/logging"
)

// Asset tracks a downloaded audio file through the pipeline so every exit
// path can release it exactly once.
type Asset struct {
	path    string
	removed bool
}

// NewAsset wraps an on-disk audio file.
func NewAsset(path string) *Asset {
	return &Asset{path: path}
}

// Path returns the location of the underlying file.
func (a *Asset) Path() string {
	if a == nil {
		return ""
	}
	return a.path
}

// Remove deletes the underlying file. It is safe to call multiple times;
// only the first call touches the filesystem. A missing file is not an
// error since the goal is absence.
func (a *Asset) Remove(logger *slog.Logger) {
	if a == nil || a.removed || a.path == "" {
		return
	}
	a.removed = true
	err := os.Remove(a.path)
	if err != nil && !os.IsNotExist(err) {
		if logger != nil {
			logger.Warn("failed to remove staged audio",
				logging.String("path", a.path),
				logging.Error(err),
				logging.String(logging.FieldEventType, "staging_remove_failed"),
			)
		}
		return
	}
	if logger != nil {
		logger.Debug("removed staged audio",
			logging.String("path", a.path),
			logging.String(logging.FieldEventType, "staging_remove"),
		)
	}
}
