package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	listClearCache bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached sessions",
	Long: `List the cached session index, most recent first.

With --remote, a missing or expired index is fetched from the session API
and written back to the cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		if listClearCache {
			cache.ClearAllCache()
			internal.LogInfo("Cache cleared")
		}

		loader, err := newLoader(cache)
		if err != nil {
			return err
		}

		var sessions []internal.SessionMetadata
		if loader != nil {
			var fromCache bool
			sessions, fromCache, err = loader.Sessions(cmd.Context())
			if err != nil {
				return err
			}
			if !fromCache {
				internal.LogInfo("Loaded %d session(s) from remote", len(sessions))
			}
		} else {
			sessions, _ = cache.GetSessionsFromCache()
		}

		displaySessions(cmd.OutOrStdout(), sessions, time.Now())
		return nil
	},
}

func displaySessions(out io.Writer, sessions []internal.SessionMetadata, now time.Time) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("📋 No cached sessions"))
		return
	}

	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 %d cached session(s)", len(sessions))))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Last activity")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

	for _, s := range sessions {
		title := s.Title
		if title == "" {
			title = "Untitled"
		}
		if r := []rune(title); len(r) > 50 {
			title = string(r[:47]) + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			idStyle.Render(s.ID),
			title,
			countStyle.Render(strconv.Itoa(s.MessageCount)),
			dateStyle.Render(formatWhen(s.LastActivityAt, now)),
		)
	}

	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, idStyle.Render("💡 Tip: view a session with `arkegu-cache show "+sessions[0].ID+"`"))
}

// formatWhen renders t relative to now the way people scan a list
func formatWhen(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.Local()
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listClearCache, "clear-cache", false, "Clear the cache before listing")
}
