package internal

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended to content cut for storage
const TruncationMarker = "\n\n[Content truncated for storage]"

// truncationReserve is the room kept free for the marker
const truncationReserve = 100

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v]+`)
	blankLineRuns   = regexp.MustCompile(`\n{3,}`)
)

// ContentProcessor bounds the size of message bodies
type ContentProcessor struct {
	CompressionThreshold int
	MaxLength            int
}

// ContentProcessor returns the processor configured by c
func (c Config) ContentProcessor() ContentProcessor {
	return ContentProcessor{
		CompressionThreshold: c.CompressionThreshold,
		MaxLength:            c.MaxMessageLength,
	}
}

// Compress collapses whitespace runs to single spaces, collapses runs of
// blank lines to one and trims both ends. Text shorter than the threshold
// is returned unchanged.
func (p ContentProcessor) Compress(text string) string {
	if utf8.RuneCountInString(text) < p.CompressionThreshold {
		return text
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// Truncate cuts text longer than MaxLength and appends TruncationMarker
func (p ContentProcessor) Truncate(text string) string {
	if utf8.RuneCountInString(text) <= p.MaxLength {
		return text
	}
	return cutRunes(text, p.MaxLength-truncationReserve) + TruncationMarker
}

// Process compresses then truncates
func (p ContentProcessor) Process(text string) string {
	return p.Truncate(p.Compress(text))
}

// cutRunes returns at most n runes of s
func cutRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// deriveTitle builds a display label from the first message of a session
func deriveTitle(content string) string {
	const maxTitleRunes = 50

	title := strings.Join(strings.Fields(content), " ")
	if title == "" {
		return "New conversation"
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		return cutRunes(title, maxTitleRunes) + "..."
	}
	return title
}
