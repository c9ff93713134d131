package cmd

import (
	"fmt"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/spf13/cobra"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Purge expired entries and orphaned session records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		var purged, orphans int
		steps := []internal.ProgressStep{
			{
				Message: "Purging expired and corrupted entries",
				Fn: func() error {
					purged = cache.PurgeExpired()
					return nil
				},
			},
			{
				Message: "Removing records missing from the index",
				Fn: func() error {
					sessions, ok := cache.GetSessionsFromCache()
					if !ok {
						internal.LogDebug("No session index, skipping orphan cleanup")
						return nil
					}
					orphans = cache.CleanupOrphans(sessions)
					return nil
				},
			},
		}
		if err := internal.ShowProgressWithSteps(cmd.Context(), steps); err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed %d expired and %d orphaned entries", purged, orphans))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
