package generate

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"vidscribe/internal/services"
	"vidscribe/internal/services/gemini"
	"vidscribe/internal/video"
)

type stubModel struct {
	result  gemini.Result
	err     error
	prompts []string
}

func (s *stubModel) Generate(_ context.Context, prompt string) (gemini.Result, error) {
	s.prompts = append(s.prompts, prompt)
	return s.result, s.err
}

func sampleMetadata() video.Metadata {
	return video.Metadata{
		Title:           "How Compilers Work",
		DurationSeconds: 1200,
		ViewCount:       1234567,
		Description:     "A deep dive into compilation.",
		Uploader:        "CS Channel",
		ID:              "dQw4w9WgXcQ",
	}
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}

func TestGenerateReturnsModelOutput(t *testing.T) {
	model := &stubModel{result: gemini.Result{Text: "<h2>Title</h2>" + strings.Repeat("<p>body</p>", 20), FinishReason: "STOP"}}
	gen := NewWithDependencies(model, 8000, 100, nil)

	content, err := gen.Generate(context.Background(), sampleMetadata(), "transcript text")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if content.Source != SourceGenerated {
		t.Fatalf("source = %q", content.Source)
	}
	if !strings.HasPrefix(content.HTML, "<h2>") {
		t.Fatalf("unexpected HTML %q", content.HTML)
	}
}

func TestGenerateClampsTranscriptInPrompt(t *testing.T) {
	model := &stubModel{result: gemini.Result{Text: strings.Repeat("x", 200)}}
	gen := NewWithDependencies(model, 8000, 100, nil)

	long := strings.Repeat("a", 20000)
	if _, err := gen.Generate(context.Background(), sampleMetadata(), long); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	prompt := model.prompts[0]
	if len(prompt) > 8000+2000 {
		t.Fatalf("transcript not clamped, prompt is %d bytes", len(prompt))
	}
}

func TestPromptClampsOnRuneBoundaries(t *testing.T) {
	md := sampleMetadata()
	// The leading ASCII byte shifts every 2-byte rune off the clamp
	// offsets, so both limits land mid-rune.
	md.Description = "x" + strings.Repeat("д", 300)

	prompt := buildPrompt(md, "x"+strings.Repeat("é", 5000), 8000)
	if !utf8.ValidString(prompt) {
		t.Fatal("prompt contains invalid UTF-8 after clamping")
	}
	if strings.Contains(prompt, "�") {
		t.Fatal("prompt contains replacement characters")
	}
}

func TestPromptInterpolatesMetadata(t *testing.T) {
	prompt := buildPrompt(sampleMetadata(), "spoken words", 8000)
	for _, want := range []string{
		"Video title: How Compilers Work",
		"Channel: CS Channel",
		"Duration: 20 minutes",
		"Views: 1234567",
		"h2, h3, p, b, i, ul, li, strong, em",
		"Transcript:\nspoken words",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestGenerateFallsBackOnSafetyBlock(t *testing.T) {
	model := &stubModel{result: gemini.Result{BlockReason: "SAFETY"}}
	gen := NewWithDependencies(model, 8000, 100, nil)

	transcript := words(300)
	content, err := gen.Generate(context.Background(), sampleMetadata(), transcript)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if content.Source != SourceFallback {
		t.Fatalf("source = %q", content.Source)
	}
	if !strings.Contains(content.HTML, "<h3>Overview</h3>") {
		t.Fatalf("fallback missing overview: %q", content.HTML)
	}
}

func TestGenerateFallsBackOnSafetyErrorMessage(t *testing.T) {
	model := &stubModel{err: errors.New("response blocked: DANGEROUS_CONTENT")}
	gen := NewWithDependencies(model, 8000, 100, nil)

	content, err := gen.Generate(context.Background(), sampleMetadata(), words(200))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if content.Source != SourceFallback {
		t.Fatalf("source = %q", content.Source)
	}
}

func TestGenerateWrapsMechanicalFailures(t *testing.T) {
	model := &stubModel{err: errors.New("connection refused")}
	gen := NewWithDependencies(model, 8000, 100, nil)

	_, err := gen.Generate(context.Background(), sampleMetadata(), "transcript")
	if !errors.Is(err, services.ErrGeneration) {
		t.Fatalf("expected generation marker, got %v", err)
	}
}

func TestGenerateFallsBackOnShortOutput(t *testing.T) {
	model := &stubModel{result: gemini.Result{Text: "<p>tiny</p>"}}
	gen := NewWithDependencies(model, 8000, 100, nil)

	content, err := gen.Generate(context.Background(), sampleMetadata(), words(200))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if content.Source != SourceFallback {
		t.Fatalf("source = %q", content.Source)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```html\n<h2>Hi</h2>\n```": "<h2>Hi</h2>",
		"```\n<p>x</p>\n```":        "<p>x</p>",
		"<p>no fences</p>":          "<p>no fences</p>",
		"text with ``` inside":      "text with ``` inside",
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Fatalf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFallbackTotality(t *testing.T) {
	for _, n := range []int{0, 50, 150, 800, 5000} {
		transcript := words(n)
		html := buildFallback(sampleMetadata(), transcript)
		if !strings.Contains(html, "<h3>Overview</h3>") {
			t.Fatalf("n=%d: missing overview", n)
		}
		if !strings.Contains(html, "<h3>Key Points</h3>") {
			t.Fatalf("n=%d: missing key points", n)
		}
		if !strings.Contains(html, "<h3>Conclusion</h3>") {
			t.Fatalf("n=%d: missing conclusion", n)
		}
		if n <= 100 && !strings.Contains(html, "Thank you for reading this summary.") {
			t.Fatalf("n=%d: expected generic conclusion", n)
		}
		if n > 100 && strings.Contains(html, "Thank you for reading this summary.") {
			t.Fatalf("n=%d: unexpected generic conclusion", n)
		}
	}
}

func TestFallbackOverviewUsesLeadingWords(t *testing.T) {
	parts := make([]string, 1000)
	for i := range parts {
		parts[i] = "w" + strconv.Itoa(i)
	}
	html := buildFallback(sampleMetadata(), strings.Join(parts, " "))

	lead := strings.Join(parts[:150], " ")
	if !strings.Contains(html, "<p>"+lead+"</p>") {
		t.Fatal("overview does not quote the first 150 transcript words")
	}
	if !strings.Contains(html, "w150") || !strings.Contains(html, "w799") {
		t.Fatal("key points missing words from the 150..800 range")
	}
	if strings.Contains(html, "w850") {
		t.Fatal("key points extend beyond word 800")
	}
	tail := strings.Join(parts[900:], " ")
	if !strings.Contains(html, "<p>"+tail+"</p>") {
		t.Fatal("conclusion does not quote the last 100 transcript words")
	}
}

func TestFallbackFormatsViewCount(t *testing.T) {
	html := buildFallback(sampleMetadata(), words(10))
	if !strings.Contains(html, "1,234,567 views") {
		t.Fatalf("view count not formatted: %q", html)
	}
}

func TestWordCount(t *testing.T) {
	cases := map[string]int{
		"":                         0,
		"one two three":            3,
		"<p>hello world</p>":       4, // both "p" tags count as tokens
		"hyphen-ated counts twice": 4,
	}
	for in, want := range cases {
		if got := WordCount(in); got != want {
			t.Fatalf("WordCount(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestReadTime(t *testing.T) {
	cases := map[int]int{
		0:    1,
		1:    1,
		200:  1,
		201:  2,
		400:  2,
		900:  5,
		1000: 5,
	}
	for wordCount, want := range cases {
		if got := ReadTime(wordCount); got != want {
			t.Fatalf("ReadTime(%d) = %d, want %d", wordCount, got, want)
		}
	}
}

func TestDecorate(t *testing.T) {
	got := Decorate("<p>hi</p>")
	want := `<div class="max-w-3xl mx-auto p-4 prose prose-indigo"><p>hi</p></div>`
	if got != want {
		t.Fatalf("Decorate = %q", got)
	}
}
