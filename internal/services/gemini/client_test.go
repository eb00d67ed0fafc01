package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"vidscribe/internal/config"
)

func newTestClient(baseURL string, opts ...Option) *Client {
	cfg := config.Gemini{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gemini-2.0-flash-exp",
	}
	opts = append(opts, WithSleeper(func(time.Duration) {}))
	return NewClient(cfg, opts...)
}

func TestGenerateReturnsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.0-flash-exp:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		settings, _ := payload["safetySettings"].([]any)
		if len(settings) != 4 {
			t.Errorf("expected 4 safety settings, got %d", len(settings))
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"<h2>Article</h2>"}]},"finishReason":"STOP"}]}`)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Generate(context.Background(), "write an article")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Text != "<h2>Article</h2>" {
		t.Fatalf("text = %q", result.Text)
	}
	if result.Blocked() {
		t.Fatal("result should not be blocked")
	}
}

func TestGenerateReportsPromptBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"promptFeedback":{"blockReason":"SAFETY"},"candidates":[]}`)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Generate(context.Background(), "something spicy")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !result.Blocked() {
		t.Fatal("expected blocked result")
	}
	if result.Text != "" {
		t.Fatalf("unexpected text %q", result.Text)
	}
}

func TestGenerateReportsCandidateSafetyStop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !result.Blocked() {
		t.Fatal("expected blocked result for SAFETY finish reason")
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]},"finishReason":"STOP"}]}`)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL, WithRetryMaxAttempts(5)).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Text != "ok" {
		t.Fatalf("text = %q", result.Text)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestGenerateHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]},"finishReason":"STOP"}]}`)
	}))
	defer server.Close()

	var slept time.Duration
	client := newTestClient(server.URL)
	client.sleeper = func(d time.Duration) { slept = d }

	if _, err := client.Generate(context.Background(), "prompt"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if slept != 2*time.Second {
		t.Fatalf("slept %s, want 2s", slept)
	}
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, WithRetryMaxAttempts(5)).Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
	var statusErr *httpStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGenerateRequiresPromptAndKey(t *testing.T) {
	client := newTestClient("http://localhost")
	if _, err := client.Generate(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	keyless := NewClient(config.Gemini{BaseURL: "http://localhost"})
	if _, err := keyless.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestIsSafetyError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("content blocked by policy"), true},
		{errors.New("finish reason SAFETY"), true},
		{errors.New("DANGEROUS_CONTENT threshold exceeded"), true},
		{errors.New("prohibited content detected"), true},
		{errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := IsSafetyError(tc.err); got != tc.want {
			t.Fatalf("IsSafetyError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestParseRetryAfterSeconds(t *testing.T) {
	d, ok := parseRetryAfter("5")
	if !ok || d != 5*time.Second {
		t.Fatalf("parseRetryAfter(5) = %s, %v", d, ok)
	}
	if _, ok := parseRetryAfter(""); ok {
		t.Fatal("empty header should not parse")
	}
	if _, ok := parseRetryAfter("-3"); ok {
		t.Fatal("negative header should not parse")
	}
}

func TestBlockedHelper(t *testing.T) {
	if (Result{}).Blocked() {
		t.Fatal("zero result should not be blocked")
	}
	if !(Result{BlockReason: "OTHER"}).Blocked() {
		t.Fatal("block reason should mark result blocked")
	}
	if !(Result{FinishReason: "safety"}).Blocked() {
		t.Fatal("finish reason comparison should be case-insensitive")
	}
	if (Result{FinishReason: strings.ToUpper("stop")}).Blocked() {
		t.Fatal("STOP should not be blocked")
	}
}
