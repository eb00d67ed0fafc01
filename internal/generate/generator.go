package generate

import (
	"context"
	"log/slog"
	"strings"

	"vidscribe/internal/config"
	"vidscribe/internal/logging"
	"vidscribe/internal/services"
	"vidscribe/internal/services/gemini"
	"vidscribe/internal/video"
)

// Article sources.
const (
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// Content is a produced article body and how it was produced.
type Content struct {
	HTML   string
	Source string
}

// TextModel produces article text from a prompt.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (gemini.Result, error)
}

// Generator turns a transcript into article HTML. Safety blocks from
// the model never fail a request: the generator falls back to a
// deterministic extractive article built from the transcript.
type Generator struct {
	model           TextModel
	transcriptLimit int
	minLength       int
	logger          *slog.Logger
}

// New wires a generator from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Generator {
	return NewWithDependencies(
		gemini.NewClient(cfg.Gemini),
		cfg.Pipeline.TranscriptPromptLimit,
		cfg.Pipeline.MinGeneratedLength,
		logger,
	)
}

// NewWithDependencies wires a generator with explicit collaborators.
func NewWithDependencies(model TextModel, transcriptLimit, minLength int, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		model:           model,
		transcriptLimit: transcriptLimit,
		minLength:       minLength,
		logger:          logger,
	}
}

// Generate produces article HTML for the transcript. It returns an
// error only for mechanical failures; safety refusals and degenerate
// model output both yield the fallback article.
func (g *Generator) Generate(ctx context.Context, md video.Metadata, transcript string) (Content, error) {
	prompt := buildPrompt(md, transcript, g.transcriptLimit)

	result, err := g.model.Generate(ctx, prompt)
	if err != nil {
		if gemini.IsSafetyError(err) {
			g.logger.Warn("generation refused on safety grounds, using fallback",
				logging.Error(err),
				logging.String(logging.FieldEventType, "generation_fallback"),
			)
			return Content{HTML: buildFallback(md, transcript), Source: SourceFallback}, nil
		}
		return Content{}, services.Wrap(services.ErrGeneration, "generation", "model",
			"article generation failed", err)
	}

	if result.Blocked() {
		g.logger.Warn("generation blocked, using fallback",
			logging.String("block_reason", result.BlockReason),
			logging.String("finish_reason", result.FinishReason),
			logging.String(logging.FieldEventType, "generation_fallback"),
		)
		return Content{HTML: buildFallback(md, transcript), Source: SourceFallback}, nil
	}

	html := stripFences(result.Text)
	if len(html) < g.minLength {
		g.logger.Warn("generated article too short, using fallback",
			logging.Int("length", len(html)),
			logging.String(logging.FieldEventType, "generation_fallback"),
		)
		return Content{HTML: buildFallback(md, transcript), Source: SourceFallback}, nil
	}

	return Content{HTML: html, Source: SourceGenerated}, nil
}

// stripFences removes Markdown code fences some models wrap HTML in.
// Output that does not start with a fence is returned untouched.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.ReplaceAll(text, "```html", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
