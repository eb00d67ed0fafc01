package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vidscribe/internal/config"
	"vidscribe/internal/generate"
	"vidscribe/internal/logging"
	"vidscribe/internal/services"
	"vidscribe/internal/services/ytdlp"
	"vidscribe/internal/transcribe"
	"vidscribe/internal/video"
)

// MetadataFetcher retrieves descriptive metadata for a video.
type MetadataFetcher interface {
	Probe(ctx context.Context, ref video.Reference) (video.Metadata, error)
}

// TranscriptProducer turns a video reference into transcript text.
type TranscriptProducer interface {
	Transcribe(ctx context.Context, ref video.Reference) (string, error)
}

// ContentProducer turns a transcript into article HTML.
type ContentProducer interface {
	Generate(ctx context.Context, md video.Metadata, transcript string) (generate.Content, error)
}

// Artifact is the finished product of a pipeline run.
type Artifact struct {
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

// Pipeline runs a video through validation, metadata, transcription,
// and generation to produce an article artifact.
type Pipeline struct {
	metadata    MetadataFetcher
	transcriber TranscriptProducer
	generator   ContentProducer
	maxDuration int64
	logger      *slog.Logger
}

// New wires a pipeline from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	return NewWithDependencies(
		ytdlp.New(cfg.YtDlp),
		transcribe.New(cfg, logger),
		generate.New(cfg, logger),
		int64(cfg.Pipeline.MaxDurationSeconds),
		logger,
	)
}

// NewWithDependencies wires a pipeline with explicit collaborators.
func NewWithDependencies(metadata MetadataFetcher, transcriber TranscriptProducer, generator ContentProducer, maxDuration int64, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		metadata:    metadata,
		transcriber: transcriber,
		generator:   generator,
		maxDuration: maxDuration,
		logger:      logger,
	}
}

// Run processes a raw video URL end to end. Metadata failures never
// abort the run; the pipeline proceeds with placeholder metadata. The
// duration gate only rejects videos whose metadata reports a length
// over the limit, so a video with unknown duration is allowed through.
func (p *Pipeline) Run(ctx context.Context, rawURL string) (Artifact, error) {
	started := time.Now()

	ref, err := video.Parse(rawURL)
	if err != nil {
		return Artifact{}, err
	}

	logger := p.logger.With(
		logging.String(logging.FieldVideoID, ref.ID()),
		logging.String(logging.FieldStage, "pipeline"),
	)
	logger.Info("pipeline started",
		logging.String("url", ref.URL()),
		logging.String(logging.FieldEventType, "pipeline_started"),
	)

	md := p.fetchMetadata(ctx, ref, logger)

	if p.maxDuration > 0 && md.DurationSeconds > p.maxDuration {
		return Artifact{}, services.Wrap(services.ErrValidation, "validation", "duration",
			fmt.Sprintf("Video too long (max %s)", formatDurationLimit(p.maxDuration)), nil)
	}

	transcript, err := p.transcriber.Transcribe(ctx, ref)
	if err != nil {
		return Artifact{}, err
	}

	content, err := p.generator.Generate(ctx, md, transcript)
	if err != nil {
		return Artifact{}, err
	}

	// Stats are computed on the article body before the layout wrapper
	// is added, so container classes never inflate the word count.
	wordCount := generate.WordCount(content.HTML)
	readTime := generate.ReadTime(wordCount)

	artifact := Artifact{
		VideoID:    ref.ID(),
		URL:        ref.URL(),
		Title:      md.DisplayTitle(),
		Uploader:   md.DisplayUploader(),
		Transcript: transcript,
		HTML:       generate.Decorate(content.HTML),
		Source:     content.Source,
		WordCount:  wordCount,
		ReadTime:   readTime,
		Duration:   md.DurationSeconds,
		ViewCount:  md.ViewCount,
		CreatedAt:  time.Now().UTC(),
	}

	logger.Info("pipeline finished",
		logging.String("source", artifact.Source),
		logging.Int("word_count", artifact.WordCount),
		logging.Int("read_time", artifact.ReadTime),
		logging.Duration("elapsed", time.Since(started)),
		logging.String(logging.FieldEventType, "pipeline_finished"),
	)
	return artifact, nil
}

// fetchMetadata probes for video metadata and degrades to placeholder
// values on any failure.
func (p *Pipeline) fetchMetadata(ctx context.Context, ref video.Reference, logger *slog.Logger) video.Metadata {
	md, err := p.metadata.Probe(ctx, ref)
	if err != nil {
		logger.Warn("metadata probe failed, continuing with defaults",
			logging.Error(err),
			logging.String(logging.FieldEventType, "metadata_fallback"),
		)
		return video.Unknown()
	}
	logger.Info("metadata fetched",
		logging.String("title", md.DisplayTitle()),
		logging.Int64("duration_seconds", md.DurationSeconds),
		logging.String(logging.FieldEventType, "metadata_fetched"),
	)
	return md
}

// formatDurationLimit renders the duration ceiling in the largest unit
// that divides it evenly, so the rejection message tracks configuration.
func formatDurationLimit(seconds int64) string {
	switch {
	case seconds%3600 == 0:
		return pluralize(seconds/3600, "hour")
	case seconds%60 == 0:
		return pluralize(seconds/60, "minute")
	default:
		return pluralize(seconds, "second")
	}
}

func pluralize(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Describe summarizes an artifact for notifications and CLI output.
func (a Artifact) Describe() string {
	return fmt.Sprintf("%s (%d words, %d min read)", a.Title, a.WordCount, a.ReadTime)
}
