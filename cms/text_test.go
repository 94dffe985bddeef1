package cms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadingTime(t *testing.T) {
	tests := []struct {
		chars int
		want  int
	}{
		{0, 0},
		{-4, 0},
		{100, 0},
		{449, 0},
		{450, 1},
		{900, 1},
		{1349, 1},
		{1350, 2},
		{1800, 2},
		{9000, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadingTime(tt.chars), "chars=%d", tt.chars)
	}
}

func TestPlainText(t *testing.T) {
	body := Body{
		TextBlock{Style: Heading2, Runs: []Run{{Text: "Title"}}},
		ImageBlock{Asset: "image-a-1x1-png"},
		TextBlock{Runs: []Run{{Text: "one "}, {Text: "two", Marks: []Mark{{Kind: Bold}}}}},
		ListBlock{Items: []TextBlock{{Runs: []Run{{Text: "a"}}}, {Runs: []Run{{Text: "b"}}}}},
		UnknownBlock{Type: "code"},
	}

	assert.Equal(t, "Title\n\none two\n\na\n\nb", PlainText(body))
	assert.Equal(t, len("Title\n\none two\n\na\n\nb"), PlainTextLen(body))
}

func TestPlainTextLen_CountsRunes(t *testing.T) {
	body := Body{TextBlock{Runs: []Run{{Text: "héllo"}}}}
	assert.Equal(t, 5, PlainTextLen(body))
}

func TestPost_DerivesReadingTime(t *testing.T) {
	w := wirePost{
		Slug: "x",
		Body: Body{TextBlock{Runs: []Run{{Text: strings.Repeat("a", 900)}}}},
	}
	assert.Equal(t, 1, w.post().EstimatedReadingTime)

	w.Body = Body{TextBlock{Runs: []Run{{Text: strings.Repeat("a", 1800)}}}}
	assert.Equal(t, 2, w.post().EstimatedReadingTime)
}
