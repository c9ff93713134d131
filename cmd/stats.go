package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	statsJSON bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache usage and health",
	Long: `Report how the cached index and session records line up:
  • Sessions listed in the index and how many still have a cached record
  • Total cached messages against the configured limits
  • Whether the index is present and unexpired
  • Bytes used against the storage ceiling`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		stats := cache.GetCacheStats()
		out := cmd.OutOrStdout()
		if statsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		displayStats(out, stats, cache.Store().TotalBytes(), cache.Config().MaxStorageBytes)
		return nil
	},
}

func displayStats(out io.Writer, stats internal.CacheStats, used, ceiling int64) {
	_, _ = fmt.Fprintln(out, sectionStyle.Render("📊 Cache Stats"))
	_, _ = fmt.Fprintln(out)

	if stats.CacheValid {
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Session index is fresh"))
	} else {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Session index is missing or expired"))
	}

	_, _ = fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("   • Sessions: %d listed, %d cached (max %d)",
		stats.SessionsInList, stats.CachedSessions, stats.MaxSessions)))
	_, _ = fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("   • Messages: %d cached (max %d per session)",
		stats.TotalMessages, stats.MaxMessagesPerSession)))

	pct := 0.0
	if ceiling > 0 {
		pct = float64(used) / float64(ceiling) * 100
	}
	_, _ = fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("   • Storage: %d of %d bytes (%.1f%%)", used, ceiling, pct)))

	if missing := stats.SessionsInList - stats.CachedSessions; missing > 0 {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  %d listed session(s) have no cached messages", missing)))
		_, _ = fmt.Fprintln(out, "   They were evicted to free space or expired; `sync --remote` refills them.")
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the stats as JSON")
}
