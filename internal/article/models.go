package article

import (
	"time"

	"vidscribe/internal/pipeline"
)

// Article is a persisted pipeline artifact.
type Article struct {
	ID         int64
	VideoID    string
	URL        string
	Title      string
	Uploader   string
	Transcript string
	HTML       string
	Source     string
	WordCount  int
	ReadTime   int
	Duration   int64
	ViewCount  int64
	CreatedAt  time.Time
}

// FromArtifact converts a pipeline artifact into a persistable article.
func FromArtifact(a pipeline.Artifact) Article {
	return Article{
		VideoID:    a.VideoID,
		URL:        a.URL,
		Title:      a.Title,
		Uploader:   a.Uploader,
		Transcript: a.Transcript,
		HTML:       a.HTML,
		Source:     a.Source,
		WordCount:  a.WordCount,
		ReadTime:   a.ReadTime,
		Duration:   a.Duration,
		ViewCount:  a.ViewCount,
		CreatedAt:  a.CreatedAt,
	}
}
