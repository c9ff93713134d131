package cmd

import (
	"fmt"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/spf13/cobra"
)

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:     "rm <session-id>",
	Aliases: []string{"remove"},
	Short:   "Remove a session from the cache",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		if _, err := cache.RemoveSessionFromCache(args[0]); err != nil {
			return err
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed %s", args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
