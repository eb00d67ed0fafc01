package transcribe

import (
	"context"
	"log/slog"
	"strings"

	"vidscribe/internal/config"
	"vidscribe/internal/logging"
	"vidscribe/internal/services"
	"vidscribe/internal/services/assemblyai"
	"vidscribe/internal/services/ytdlp"
	"vidscribe/internal/staging"
	"vidscribe/internal/video"
)

// AudioAcquirer downloads a video's audio track into staging.
type AudioAcquirer interface {
	DownloadAudio(ctx context.Context, ref video.Reference, stagingDir string) (*staging.Asset, error)
}

// TranscriptionClient converts a staged audio file to text.
type TranscriptionClient interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Transcriber acquires audio for a video and produces its transcript.
// The staged audio file is removed before Transcribe returns, on every
// path including failures.
type Transcriber struct {
	stagingDir string
	acquirer   AudioAcquirer
	client     TranscriptionClient
	logger     *slog.Logger
}

// New wires a transcriber from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Transcriber {
	return NewWithDependencies(
		cfg.Paths.StagingDir,
		ytdlp.New(cfg.YtDlp),
		assemblyai.New(cfg.Transcription),
		logger,
	)
}

// NewWithDependencies wires a transcriber with explicit collaborators.
func NewWithDependencies(stagingDir string, acquirer AudioAcquirer, client TranscriptionClient, logger *slog.Logger) *Transcriber {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Transcriber{
		stagingDir: stagingDir,
		acquirer:   acquirer,
		client:     client,
		logger:     logger,
	}
}

// Transcribe downloads the video's audio, sends it for transcription,
// and returns the transcript text. If the download fails, no remote
// transcription call is made.
func (t *Transcriber) Transcribe(ctx context.Context, ref video.Reference) (string, error) {
	logger := t.logger.With(logging.String(logging.FieldVideoID, ref.ID()))

	asset, err := t.acquirer.DownloadAudio(ctx, ref, t.stagingDir)
	if err != nil {
		return "", err
	}
	defer asset.Remove(logger)

	logger.Info("audio staged",
		logging.String("path", asset.Path()),
		logging.String(logging.FieldEventType, "audio_staged"),
	)

	text, err := t.client.Transcribe(ctx, asset.Path())
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", services.Wrap(services.ErrTranscription, "transcription", "result",
			"transcription produced no text", nil)
	}

	logger.Info("transcript ready",
		logging.Int("characters", len(text)),
		logging.String(logging.FieldEventType, "transcript_ready"),
	)
	return text, nil
}
