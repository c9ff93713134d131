package cmd

import (
	"fmt"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/spf13/cobra"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refill the cache from the session API",
	Long: `Fetch the session list and the message history of every listed session
from --remote and write them to the cache, replacing what is there.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if remoteURL == "" {
			return fmt.Errorf("sync requires --remote")
		}

		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		loader, err := newLoader(cache)
		if err != nil {
			return err
		}

		synced, err := internal.ShowProgressResult(cmd.Context(), fmt.Sprintf("Syncing sessions from %s", remoteURL), func() (int, error) {
			return loader.Sync(cmd.Context())
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Synced %d session(s)", synced))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
