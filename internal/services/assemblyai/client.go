package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"vidscribe/internal/config"
	"vidscribe/internal/services"
)

// Transcript statuses reported by the API.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Transcript is the polled state of a transcription job.
type Transcript struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Sleeper pauses between polls. Tests substitute a no-op.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithSleeper overrides the poll delay function.
func WithSleeper(sleeper Sleeper) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleep = sleeper
		}
	}
}

// Client talks to the AssemblyAI v2 REST API: upload audio, submit a
// transcription job, poll until it settles.
type Client struct {
	apiKey       string
	baseURL      string
	speechModel  string
	pollInterval time.Duration
	pollTimeout  time.Duration
	httpClient   *http.Client
	sleep        Sleeper
}

// New creates a transcription client from configuration.
func New(cfg config.Transcription, opts ...Option) *Client {
	client := &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		speechModel:  cfg.SpeechModel,
		pollInterval: time.Duration(cfg.PollInterval) * time.Second,
		pollTimeout:  time.Duration(cfg.PollTimeout) * time.Second,
		httpClient:   &http.Client{Timeout: 2 * time.Minute},
		sleep:        sleepContext,
	}
	if client.baseURL == "" {
		client.baseURL = "https://api.assemblyai.com"
	}
	if client.pollInterval <= 0 {
		client.pollInterval = 3 * time.Second
	}
	if client.pollTimeout <= 0 {
		client.pollTimeout = 10 * time.Minute
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Transcribe uploads the audio file at path and blocks until the remote
// job completes or fails.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	if c.apiKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "transcription", "auth", "transcription API key not configured", nil)
	}

	audioURL, err := c.upload(ctx, path)
	if err != nil {
		return "", err
	}

	transcript, err := c.submit(ctx, audioURL)
	if err != nil {
		return "", err
	}

	final, err := c.poll(ctx, transcript.ID)
	if err != nil {
		return "", err
	}
	if final.Status == StatusError {
		return "", services.Wrap(services.ErrTranscription, "transcription", "job",
			fmt.Sprintf("transcription failed: %s", final.Error), nil)
	}
	return final.Text, nil
}

// upload streams the audio file to the API and returns its temporary URL.
func (c *Client) upload(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcription", "upload", "open audio file", err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", file)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcription", "upload", "build request", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var payload struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(req, "upload", &payload); err != nil {
		return "", err
	}
	if payload.UploadURL == "" {
		return "", services.Wrap(services.ErrTranscription, "transcription", "upload", "upload response missing URL", nil)
	}
	return payload.UploadURL, nil
}

// submit creates a transcription job for an uploaded audio URL.
func (c *Client) submit(ctx context.Context, audioURL string) (Transcript, error) {
	body, err := json.Marshal(map[string]string{
		"audio_url":    audioURL,
		"speech_model": c.speechModel,
	})
	if err != nil {
		return Transcript{}, services.Wrap(services.ErrTranscription, "transcription", "submit", "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return Transcript{}, services.Wrap(services.ErrTranscription, "transcription", "submit", "build request", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var transcript Transcript
	if err := c.do(req, "submit", &transcript); err != nil {
		return Transcript{}, err
	}
	if transcript.ID == "" {
		return Transcript{}, services.Wrap(services.ErrTranscription, "transcription", "submit", "job response missing id", nil)
	}
	return transcript, nil
}

// poll fetches job state until it settles or the poll window elapses.
func (c *Client) poll(ctx context.Context, id string) (Transcript, error) {
	deadline := time.Now().Add(c.pollTimeout)
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+id, nil)
		if err != nil {
			return Transcript{}, services.Wrap(services.ErrTranscription, "transcription", "poll", "build request", err)
		}
		req.Header.Set("Authorization", c.apiKey)

		var transcript Transcript
		if err := c.do(req, "poll", &transcript); err != nil {
			return Transcript{}, err
		}
		switch transcript.Status {
		case StatusCompleted, StatusError:
			return transcript, nil
		case StatusQueued, StatusProcessing:
		default:
			return Transcript{}, services.Wrap(services.ErrTranscription, "transcription", "poll",
				fmt.Sprintf("unexpected transcript status %q", transcript.Status), nil)
		}

		if time.Now().After(deadline) {
			return Transcript{}, services.Wrap(services.ErrTranscription, "transcription", "poll",
				fmt.Sprintf("transcription did not finish within %s", c.pollTimeout), nil)
		}
		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return Transcript{}, services.Wrap(services.ErrTranscription, "transcription", "poll", "cancelled while waiting", err)
		}
	}
}

func (c *Client) do(req *http.Request, operation string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTranscription, "transcription", operation, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return services.Wrap(services.ErrTranscription, "transcription", operation, "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return services.Wrap(services.ErrTranscription, "transcription", operation,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, truncate(string(data), 200)), nil)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return services.Wrap(services.ErrTranscription, "transcription", operation, "decode response", err)
		}
	}
	return nil
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
