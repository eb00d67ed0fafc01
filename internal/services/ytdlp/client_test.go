package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidscribe/internal/config"
	"vidscribe/internal/services"
	"vidscribe/internal/video"
)

func testConfig() config.YtDlp {
	return config.YtDlp{
		Binary:        "yt-dlp",
		UserAgent:     "Mozilla/5.0 (Test)",
		Referer:       "https://www.youtube.com/",
		PlayerClients: []string{"android", "web"},
		SocketTimeout: 30,
		Retries:       3,
		AudioQuality:  "128K",
	}
}

func mustParse(t *testing.T, url string) video.Reference {
	t.Helper()
	ref, err := video.Parse(url)
	if err != nil {
		t.Fatalf("parse %q: %v", url, err)
	}
	return ref
}

func TestProbeParsesMetadata(t *testing.T) {
	client := New(testConfig())
	var gotArgs []string
	client.WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		gotArgs = args
		payload := `{"id":"dQw4w9WgXcQ","title":"Test Video","duration":212.5,"view_count":1000000,"description":"A description","uploader":"Channel"}`
		return []byte(payload), nil, nil
	})

	md, err := client.Probe(context.Background(), mustParse(t, "https://youtu.be/dQw4w9WgXcQ"))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if md.Title != "Test Video" || md.Uploader != "Channel" || md.ID != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected metadata: %+v", md)
	}
	if md.DurationSeconds != 212 {
		t.Fatalf("duration = %d, want 212", md.DurationSeconds)
	}
	if md.ViewCount != 1000000 {
		t.Fatalf("view count = %d", md.ViewCount)
	}

	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"--dump-json", "--no-download", "--user-agent", "--extractor-args"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("probe args missing %q: %s", want, joined)
		}
	}
}

func TestProbeFailureReturnsUnknown(t *testing.T) {
	client := New(testConfig())
	client.WithCommandRunner(func(context.Context, string, ...string) ([]byte, []byte, error) {
		return nil, []byte("ERROR: network timed out"), errors.New("exit status 1")
	})

	md, err := client.Probe(context.Background(), mustParse(t, "https://youtu.be/dQw4w9WgXcQ"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrMetadata) {
		t.Fatalf("expected metadata marker, got %v", err)
	}
	if md != video.Unknown() {
		t.Fatalf("expected unknown metadata, got %+v", md)
	}
}

func TestDownloadAudioStagesFile(t *testing.T) {
	stagingDir := t.TempDir()
	client := New(testConfig())

	calls := 0
	client.WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		calls++
		if calls == 1 {
			// Probe call.
			return []byte(`{"id":"dQw4w9WgXcQ","title":"t","duration":60}`), nil, nil
		}
		joined := strings.Join(args, " ")
		for _, want := range []string{"-f bestaudio/best", "-x", "--audio-format mp3", "--audio-quality 128K"} {
			if !strings.Contains(joined, want) {
				t.Fatalf("download args missing %q: %s", want, joined)
			}
		}
		path := filepath.Join(stagingDir, "dQw4w9WgXcQ.mp3")
		if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		return nil, nil, nil
	})

	asset, err := client.DownloadAudio(context.Background(), mustParse(t, "https://youtu.be/dQw4w9WgXcQ"), stagingDir)
	if err != nil {
		t.Fatalf("DownloadAudio: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected probe then download, got %d calls", calls)
	}
	if _, err := os.Stat(asset.Path()); err != nil {
		t.Fatalf("staged file missing: %v", err)
	}
}

func TestDownloadAudioFailsWhenNoFileProduced(t *testing.T) {
	client := New(testConfig())
	calls := 0
	client.WithCommandRunner(func(context.Context, string, ...string) ([]byte, []byte, error) {
		calls++
		if calls == 1 {
			return []byte(`{"id":"dQw4w9WgXcQ"}`), nil, nil
		}
		return nil, nil, nil
	})

	_, err := client.DownloadAudio(context.Background(), mustParse(t, "https://youtu.be/dQw4w9WgXcQ"), t.TempDir())
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestClassifyFailure(t *testing.T) {
	client := New(testConfig())
	cases := []struct {
		stderr string
		marker error
	}{
		{"ERROR: HTTP Error 403: Forbidden", services.ErrBlocked},
		{"ERROR: Sign in to confirm you're not a bot", services.ErrBlocked},
		{"ERROR: HTTP Error 429: Too Many Requests", services.ErrRateLimited},
		{"ERROR: Video unavailable", services.ErrUnavailable},
		{"ERROR: Private video", services.ErrUnavailable},
		{"ERROR: connection reset by peer", services.ErrTransient},
	}
	for _, tc := range cases {
		err := client.classifyFailure("download", []byte(tc.stderr), errors.New("exit status 1"))
		if !errors.Is(err, tc.marker) {
			t.Fatalf("stderr %q: got %v, want marker %v", tc.stderr, err, tc.marker)
		}
	}
}

func TestClassifyFailureSurfacesFriendlyMessage(t *testing.T) {
	client := New(testConfig())
	err := client.classifyFailure("download", []byte("ERROR: HTTP Error 403: Forbidden"), errors.New("exit status 1"))
	details := services.Details(err)
	if !strings.Contains(details.Message, "blocked") {
		t.Fatalf("expected friendly message, got %q", details.Message)
	}
}

func TestSummarizeStderrPicksLastLine(t *testing.T) {
	stderr := []byte("[youtube] Extracting URL\nWARNING: some warning\nERROR: the real failure\n")
	if got := summarizeStderr(stderr); got != "ERROR: the real failure" {
		t.Fatalf("summarizeStderr = %q", got)
	}
}
