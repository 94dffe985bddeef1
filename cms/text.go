package cms

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	charsPerWord   = 5
	wordsPerMinute = 180
)

// PlainText flattens the text-bearing blocks of body. Span text within a
// block is concatenated and blocks are separated by a blank line; list items
// count as individual blocks. Images and unknown blocks contribute nothing.
func PlainText(body Body) string {
	var parts []string
	for _, b := range body {
		switch v := b.(type) {
		case TextBlock:
			parts = append(parts, v.text())
		case ListBlock:
			for _, item := range v.Items {
				parts = append(parts, item.text())
			}
		}
	}
	return strings.Join(parts, "\n\n")
}

// PlainTextLen is the character count of PlainText(body).
func PlainTextLen(body Body) int {
	return utf8.RuneCountInString(PlainText(body))
}

// ReadingTime estimates minutes to read chars characters, assuming five
// characters per word and 180 words per minute. Halves round up.
func ReadingTime(chars int) int {
	if chars <= 0 {
		return 0
	}
	return int(math.Floor(float64(chars)/charsPerWord/wordsPerMinute + 0.5))
}

func (b TextBlock) text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
