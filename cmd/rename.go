package cmd

import (
	"fmt"
	"strings"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/spf13/cobra"
)

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:   "rename <session-id> <title...>",
	Short: "Change the title of a cached session",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		id := args[0]
		title := strings.Join(args[1:], " ")
		patch := internal.SessionPatch{Title: &title}
		if rec, ok := cache.GetSessionFromCache(id); ok {
			patch.Messages = rec.Messages
		}

		outcome, err := cache.UpdateSessionInCache(id, patch)
		if err != nil {
			return err
		}
		if !outcome.Stored() {
			return fmt.Errorf("session not in cache: %s", id)
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Renamed %s to %q", id, title))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
