package generate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"vidscribe/internal/video"
)

// promptDescriptionLimit caps how much of the video description is
// quoted in the prompt.
const promptDescriptionLimit = 300

// allowedTags is the HTML vocabulary the model is instructed to use and
// the fallback generator restricts itself to.
var allowedTags = []string{"h2", "h3", "p", "b", "i", "ul", "li", "strong", "em"}

// buildPrompt assembles the article-generation prompt from video
// metadata and the transcript, clamped to transcriptLimit characters so
// long videos stay within the model's context.
func buildPrompt(md video.Metadata, transcript string, transcriptLimit int) string {
	if transcriptLimit > 0 {
		transcript = clampRunes(transcript, transcriptLimit)
	}
	description := clampRunes(md.Description, promptDescriptionLimit)

	var b strings.Builder
	b.WriteString("Write a complete blog article based on the transcript of a video. ")
	b.WriteString("The article should read as a standalone piece, not as a summary of a video.\n\n")
	fmt.Fprintf(&b, "Video title: %s\n", md.DisplayTitle())
	fmt.Fprintf(&b, "Channel: %s\n", md.DisplayUploader())
	if md.DurationSeconds > 0 {
		fmt.Fprintf(&b, "Duration: %d minutes\n", md.DurationSeconds/60)
	}
	if md.ViewCount > 0 {
		fmt.Fprintf(&b, "Views: %d\n", md.ViewCount)
	}
	if description != "" {
		fmt.Fprintf(&b, "Video description: %s\n", description)
	}
	b.WriteString("\nRequirements:\n")
	fmt.Fprintf(&b, "- Respond with HTML using only these tags: %s.\n", strings.Join(allowedTags, ", "))
	b.WriteString("- Do not include <html>, <head>, <body>, <script>, or <style> tags.\n")
	b.WriteString("- Structure the article with an introduction, several themed sections with headings, and a conclusion.\n")
	b.WriteString("- Aim for 800 to 1500 words.\n")
	b.WriteString("- Do not mention that the content comes from a video or transcript.\n")
	b.WriteString("\nTranscript:\n")
	b.WriteString(transcript)
	return b.String()
}

// clampRunes limits s to at most limit bytes, backing up so a multibyte
// rune is never split.
func clampRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
