package generate

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"vidscribe/internal/video"
)

const (
	overviewWords   = 150
	keyPointsEnd    = 800
	conclusionWords = 100
)

var viewPrinter = message.NewPrinter(language.English)

// buildFallback produces a deterministic extractive article from the
// transcript itself. It is used when the generative model withholds
// output for safety reasons, and it works for any transcript length.
func buildFallback(md video.Metadata, transcript string) string {
	words := strings.Fields(transcript)

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(md.DisplayTitle()))
	fmt.Fprintf(&b, "<p><i>From the channel %s", html.EscapeString(md.DisplayUploader()))
	if md.DurationSeconds > 0 {
		fmt.Fprintf(&b, ", %d minutes", md.DurationSeconds/60)
	}
	if md.ViewCount > 0 {
		fmt.Fprintf(&b, ", with %s views", viewPrinter.Sprintf("%d", md.ViewCount))
	}
	b.WriteString(".</i></p>\n")

	b.WriteString("<h3>Overview</h3>\n")
	overview := takeWords(words, 0, overviewWords)
	if overview == "" {
		b.WriteString("<p>This video did not include enough spoken content to summarize.</p>\n")
	} else {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(overview))
	}

	b.WriteString("<h3>Key Points</h3>\n")
	if body := takeWords(words, overviewWords, keyPointsEnd-overviewWords); body != "" {
		b.WriteString("<ul>\n")
		for _, chunk := range splitChunks(body, 60) {
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(chunk))
		}
		b.WriteString("</ul>\n")
	} else {
		b.WriteString("<p>The overview above covers the full discussion.</p>\n")
	}

	b.WriteString("<h3>Conclusion</h3>\n")
	if len(words) > conclusionWords {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(strings.Join(words[len(words)-conclusionWords:], " ")))
	} else {
		b.WriteString("<p>Thank you for reading this summary.</p>\n")
	}

	return strings.TrimSpace(b.String())
}

// takeWords joins words[start:start+count], clamped to the slice.
func takeWords(words []string, start, count int) string {
	if start >= len(words) {
		return ""
	}
	end := start + count
	if end > len(words) {
		end = len(words)
	}
	return strings.Join(words[start:end], " ")
}

// splitChunks splits text into runs of at most size words.
func splitChunks(text string, size int) []string {
	words := strings.Fields(text)
	var chunks []string
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
