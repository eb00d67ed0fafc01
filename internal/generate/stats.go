package generate

import "regexp"

// wordsPerMinute is the assumed reading speed for read-time estimates.
const wordsPerMinute = 200

var wordPattern = regexp.MustCompile(`\w+`)

// WordCount counts word-like tokens in text. Tag names in HTML input
// count as tokens.
func WordCount(text string) int {
	return len(wordPattern.FindAllString(text, -1))
}

// ReadTime estimates reading time in whole minutes, rounding up, with a
// floor of one minute.
func ReadTime(words int) int {
	if words <= 0 {
		return 1
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
