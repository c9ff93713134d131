package cmd

import (
	"github.com/arkegu/arkegu-cache/internal"
	"github.com/spf13/cobra"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached session and the index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		cache.ClearAllCache()
		internal.PrintSuccess(cmd.OutOrStdout(), "Cache cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
