package article_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"vidscribe/internal/article"
	"vidscribe/internal/pipeline"
)

func openStore(t *testing.T) *article.Store {
	t.Helper()
	store, err := article.OpenPath(filepath.Join(t.TempDir(), "articles.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleArticle(videoID string) article.Article {
	return article.FromArtifact(pipeline.Artifact{
		VideoID:    videoID,
		URL:        "https://youtu.be/" + videoID,
		Title:      "Sample",
		Uploader:   "Channel",
		Transcript: "spoken words",
		HTML:       "<div><p>body</p></div>",
		Source:     "generated",
		WordCount:  500,
		ReadTime:   3,
		Duration:   600,
		ViewCount:  42000,
		CreatedAt:  time.Now().UTC(),
	})
}

func TestSaveAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, sampleArticle("dQw4w9WgXcQ"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := store.GetByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.VideoID != "dQw4w9WgXcQ" || got.WordCount != 500 || got.ReadTime != 3 {
		t.Fatalf("unexpected article: %+v", got)
	}
	if got.Transcript != "spoken words" || got.ViewCount != 42000 {
		t.Fatalf("transcript/view count lost in round trip: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created at lost in round trip")
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store := openStore(t)
	_, err := store.GetByID(context.Background(), 999)
	if !errors.Is(err, article.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := sampleArticle("aaaaaaaaaaa")
	first.CreatedAt = time.Now().Add(-time.Hour).UTC()
	second := sampleArticle("bbbbbbbbbbb")
	second.CreatedAt = time.Now().UTC()

	if _, err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	articles, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].VideoID != "bbbbbbbbbbb" {
		t.Fatalf("expected newest first, got %q", articles[0].VideoID)
	}
}

func TestDelete(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, sampleArticle("dQw4w9WgXcQ"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, saved.ID); !errors.Is(err, article.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "articles.db")

	store, err := article.OpenPath(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Save(context.Background(), sampleArticle("dQw4w9WgXcQ")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := article.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	articles, err := reopened.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article after reopen, got %d", len(articles))
	}
}
