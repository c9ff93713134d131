package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arkegu/arkegu-cache/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session record to Markdown
func (e *MarkdownExporter) Export(rec *internal.SessionRecord, w io.Writer) error {
	title := rec.Title
	if title == "" {
		title = rec.ID
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)

	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", rec.ID)
	if !rec.LastActivityAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Last activity:** %s  \n", rec.LastActivityAt.UTC().Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d cached of %d\n\n", len(rec.Messages), rec.MessageCount)

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range rec.Messages {
		timestamp := ""
		if !msg.Timestamp.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp.UTC().Format(time.RFC3339))
		}

		content := escapeMarkdown(msg.Content)

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, content)

		if i < len(rec.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
