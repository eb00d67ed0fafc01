package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"vidscribe/internal/config"
	"vidscribe/internal/services"
	"vidscribe/internal/staging"
	"vidscribe/internal/video"
)

// DefaultBinary is the yt-dlp executable name used when none is configured.
const DefaultBinary = "yt-dlp"

// CommandRunner executes the downloader binary and returns its captured
// stdout and stderr. Tests substitute a fake.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Client wraps the yt-dlp binary for metadata probes and audio extraction.
type Client struct {
	cfg    config.YtDlp
	runner CommandRunner
}

// New creates a client from downloader configuration.
func New(cfg config.YtDlp) *Client {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	return &Client{cfg: cfg, runner: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		c.runner = runner
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// probePayload is the subset of yt-dlp's --dump-json output we consume.
type probePayload struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	ViewCount   int64   `json:"view_count"`
	Description string  `json:"description"`
	Uploader    string  `json:"uploader"`
}

// Probe fetches video metadata without downloading any media. Callers
// treat probe failures as soft: the pipeline falls back to placeholder
// metadata rather than aborting.
func (c *Client) Probe(ctx context.Context, ref video.Reference) (video.Metadata, error) {
	args := c.buildProbeArgs(ref.URL())
	stdout, stderr, err := c.runner(ctx, c.cfg.Binary, args...)
	if err != nil {
		return video.Unknown(), services.Wrap(services.ErrMetadata, "download", "probe",
			fmt.Sprintf("metadata probe failed: %s", summarizeStderr(stderr)), err)
	}

	var payload probePayload
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &payload); err != nil {
		return video.Unknown(), services.Wrap(services.ErrMetadata, "download", "probe",
			"metadata probe returned malformed JSON", err)
	}

	return video.Metadata{
		ID:              payload.ID,
		Title:           payload.Title,
		DurationSeconds: int64(payload.Duration),
		ViewCount:       payload.ViewCount,
		Description:     video.TruncateDescription(payload.Description),
		Uploader:        payload.Uploader,
	}, nil
}

// DownloadAudio extracts the video's audio track into the staging
// directory as MP3 and returns the staged asset. A probe runs first so
// unreachable videos fail before any media transfer starts.
func (c *Client) DownloadAudio(ctx context.Context, ref video.Reference, stagingDir string) (*staging.Asset, error) {
	if err := staging.EnsureDir(stagingDir); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "download", "staging", "staging directory unavailable", err)
	}

	// Fail fast: a cheap probe surfaces blocked or removed videos
	// before the expensive download starts.
	probeArgs := c.buildProbeArgs(ref.URL())
	if _, stderr, err := c.runner(ctx, c.cfg.Binary, probeArgs...); err != nil {
		return nil, c.classifyFailure("probe", stderr, err)
	}

	args := c.buildDownloadArgs(ref.URL(), stagingDir)
	if _, stderr, err := c.runner(ctx, c.cfg.Binary, args...); err != nil {
		return nil, c.classifyFailure("download", stderr, err)
	}

	path := staging.AudioPath(stagingDir, ref.ID())
	if _, err := os.Stat(path); err != nil {
		return nil, services.Wrap(services.ErrTransient, "download", "download",
			"downloader reported success but no audio file was produced", err)
	}
	return staging.NewAsset(path), nil
}

func (c *Client) buildProbeArgs(url string) []string {
	args := []string{"--dump-json", "--no-download", "--no-playlist"}
	args = append(args, c.commonArgs()...)
	return append(args, url)
}

func (c *Client) buildDownloadArgs(url, stagingDir string) []string {
	quality := c.cfg.AudioQuality
	if quality == "" {
		quality = "128K"
	}
	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", quality,
		"--no-playlist",
		"-o", stagingDir + "/%(id)s.%(ext)s",
	}
	args = append(args, c.commonArgs()...)
	return append(args, url)
}

// commonArgs carries the request shaping that keeps a headless
// downloader from tripping YouTube's bot heuristics: a desktop browser
// identity plus alternate player clients.
func (c *Client) commonArgs() []string {
	var args []string
	if c.cfg.UserAgent != "" {
		args = append(args, "--user-agent", c.cfg.UserAgent)
	}
	if c.cfg.Referer != "" {
		args = append(args, "--referer", c.cfg.Referer)
	}
	args = append(args,
		"--add-header", "Accept:text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"--add-header", "Accept-Language:en-us,en;q=0.5",
		"--add-header", "Sec-Fetch-Mode:navigate",
	)
	if len(c.cfg.PlayerClients) > 0 {
		extractor := "youtube:player_client=" + strings.Join(c.cfg.PlayerClients, ",") + ";skip=hls,dash"
		args = append(args, "--extractor-args", extractor)
	}
	if c.cfg.SocketTimeout > 0 {
		args = append(args, "--socket-timeout", strconv.Itoa(c.cfg.SocketTimeout))
	}
	if c.cfg.Retries > 0 {
		args = append(args, "--retries", strconv.Itoa(c.cfg.Retries))
	}
	return args
}

// classifyFailure maps downloader stderr onto the failure taxonomy so
// callers can translate anti-bot blocks, throttling, and missing videos
// into distinct outcomes.
func (c *Client) classifyFailure(operation string, stderr []byte, err error) error {
	msg := summarizeStderr(stderr)
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "403") || strings.Contains(lower, "forbidden") ||
		strings.Contains(lower, "sign in to confirm") || strings.Contains(lower, "bot"):
		return services.Wrap(services.ErrBlocked, "download", operation,
			"YouTube blocked the request. The video may be restricted or rate-limited. Try again later.", err)
	case strings.Contains(lower, "429") || strings.Contains(lower, "too many requests"):
		return services.Wrap(services.ErrRateLimited, "download", operation,
			"Too many requests to YouTube. Please wait before trying again.", err)
	case strings.Contains(lower, "video unavailable") || strings.Contains(lower, "private video") ||
		strings.Contains(lower, "this video is not available") || strings.Contains(lower, "removed"):
		return services.Wrap(services.ErrUnavailable, "download", operation,
			"This video is unavailable or private.", err)
	default:
		if msg == "" {
			msg = err.Error()
		}
		return services.Wrap(services.ErrTransient, "download", operation,
			fmt.Sprintf("audio download failed: %s", msg), err)
	}
}

// summarizeStderr returns the last non-empty stderr line, which is
// where yt-dlp puts its actual error.
func summarizeStderr(stderr []byte) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
