// Package ytdlp wraps the yt-dlp binary for metadata probes and audio
// extraction. Every invocation carries browser-like request headers and
// alternate player clients because YouTube aggressively blocks plain
// automated downloads, and failures are classified into blocked,
// rate-limited, unavailable, and transient outcomes.
package ytdlp
