package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/spf13/cobra"
)

var (
	inspectFormat string
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the raw cache entries in the store",
	Long: `List every cache entry in the store with its size, write time and
state (fresh, expired or corrupt). Nothing is modified.

Examples:
  arkegu-cache inspect
  arkegu-cache inspect --store redis://localhost:6379/0 --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		infos := cache.Inspect()
		out := cmd.OutOrStdout()
		switch inspectFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(infos)
		case "text":
			displayEntries(out, infos)
			return nil
		default:
			return fmt.Errorf("unsupported format: %s (supported: text, json)", inspectFormat)
		}
	},
}

func displayEntries(out io.Writer, infos []internal.EntryInfo) {
	if len(infos) == 0 {
		_, _ = fmt.Fprintln(out, "📦 Store holds no cache entries")
		return
	}

	_, _ = fmt.Fprintf(out, "📦 %d entries\n\n", len(infos))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tBYTES\tWRITTEN\tSTATE")
	for _, info := range infos {
		written := "—"
		if !info.WrittenAt.IsZero() {
			written = info.WrittenAt.Local().Format("2006-01-02 15:04:05")
		}
		state := info.Status
		switch info.Status {
		case internal.EntryFresh:
			state = successStyle.Render(state)
		default:
			state = warningStyle.Render(state)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", info.Key, info.Bytes, written, state)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
}
