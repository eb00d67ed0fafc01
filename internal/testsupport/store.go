package testsupport

import (
	"testing"

	"vidscribe/internal/article"
	"vidscribe/internal/config"
)

// MustOpenStore opens an article store for cfg and fails the test on
// error. The store is closed automatically during cleanup.
func MustOpenStore(t *testing.T, cfg *config.Config) *article.Store {
	t.Helper()
	store, err := article.Open(cfg)
	if err != nil {
		t.Fatalf("open article store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
