package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vidscribe/internal/config"
)

const userAgent = "Vidscribe/0.1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyArticleReady(ctx context.Context, title string, wordCount, readTime int) error
	NotifyPipelineFailed(ctx context.Context, videoID string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when
// configured. When no ntfy topic is configured, a noop implementation
// is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		sendArticles: cfg.Notifications.Articles,
		sendErrors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	sendArticles bool
	sendErrors   bool
}

func (n *ntfyService) NotifyArticleReady(ctx context.Context, title string, wordCount, readTime int) error {
	if !n.sendArticles {
		return nil
	}
	title = strings.TrimSpace(title)
	data := payload{
		title:   "Vidscribe - Article Ready",
		message: fmt.Sprintf("Article ready: %s (%d words, %d min read)", title, wordCount, readTime),
		tags:    []string{"vidscribe", "article", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPipelineFailed(ctx context.Context, videoID string, err error) error {
	if !n.sendErrors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Pipeline failed")
	if videoID = strings.TrimSpace(videoID); videoID != "" {
		builder.WriteString(" for ")
		builder.WriteString(videoID)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Vidscribe - Error",
		message:  builder.String(),
		tags:     []string{"vidscribe", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Vidscribe - Test",
		message:  "Notification system test",
		tags:     []string{"vidscribe", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyArticleReady(context.Context, string, int, int) error { return nil }
func (noopService) NotifyPipelineFailed(context.Context, string, error) error  { return nil }
func (noopService) TestNotification(context.Context) error                     { return nil }
