package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/arkegu/arkegu-cache/internal/export"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	limit      int
	showRender bool
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the cached messages of a session",
	Long: `Display the most recent messages cached for a session.

With --remote, a missing or expired session is fetched from the session API
and written back to the cache. --render formats the conversation as
terminal markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		rec, err := loadSession(cmd, cache, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showRender {
			return renderSession(out, &rec)
		}

		displaySessionHeader(out, &rec)

		messages := rec.Messages
		if limit > 0 && limit < len(messages) {
			messages = messages[len(messages)-limit:]
		}
		offset := len(rec.Messages) - len(messages)
		for i, msg := range messages {
			displayMessage(out, offset+i+1, msg, len(rec.Messages))
		}
		return nil
	},
}

// loadSession reads a session from the cache, falling back to --remote
func loadSession(cmd *cobra.Command, cache *internal.CacheManager, id string) (internal.SessionRecord, error) {
	loader, err := newLoader(cache)
	if err != nil {
		return internal.SessionRecord{}, err
	}
	if loader != nil {
		rec, fromCache, err := loader.Session(cmd.Context(), id)
		if err != nil {
			return internal.SessionRecord{}, err
		}
		if !fromCache {
			internal.LogInfo("Session fetched from remote and cached")
		}
		return rec, nil
	}

	rec, ok := cache.GetSessionFromCache(id)
	if !ok {
		return internal.SessionRecord{}, fmt.Errorf("session not in cache: %s (use --remote to fetch it)", id)
	}
	return rec, nil
}

func renderSession(out io.Writer, rec *internal.SessionRecord) error {
	var buf bytes.Buffer
	if err := (&export.MarkdownExporter{}).Export(rec, &buf); err != nil {
		return fmt.Errorf("failed to build markdown: %w", err)
	}
	rendered, err := glamour.Render(buf.String(), "dark")
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}

func displaySessionHeader(out io.Writer, rec *internal.SessionRecord) {
	title := rec.Title
	if title == "" {
		title = rec.ID
	}
	_, _ = fmt.Fprintln(out, sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", title)))

	metaParts := []string{fmt.Sprintf("ID: %s", rec.ID)}
	if !rec.LastActivityAt.IsZero() {
		metaParts = append(metaParts, fmt.Sprintf("Last activity: %s", rec.LastActivityAt.Local().Format("2006-01-02 15:04")))
	}
	metaParts = append(metaParts, fmt.Sprintf("Messages: %d cached of %d", len(rec.Messages), rec.MessageCount))

	_, _ = fmt.Fprintln(out, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	_, _ = fmt.Fprintln(out)
}

func displayMessage(out io.Writer, index int, msg internal.Message, total int) {
	var roleStyle lipgloss.Style
	var roleLabel string

	switch msg.Role {
	case internal.RoleUser:
		roleStyle = userMessageStyle
		roleLabel = "👤 User"
	default:
		roleStyle = assistantMessageStyle
		roleLabel = "🤖 Assistant"
	}

	header := roleStyle.Render(roleLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if !msg.Timestamp.IsZero() {
		header += " " + timestampStyle.Render(msg.Timestamp.Local().Format("15:04:05"))
	}
	_, _ = fmt.Fprintln(out, header)

	content := strings.TrimSpace(msg.Content)
	if content != "" {
		_, _ = fmt.Fprintln(out, messageContentStyle.Render(wrapText(content, 80)))
	} else {
		_, _ = fmt.Fprintln(out, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	}
	_, _ = fmt.Fprintln(out)
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last N messages")
	showCmd.Flags().BoolVar(&showRender, "render", false, "Render the conversation as terminal markdown")
}
