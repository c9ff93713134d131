package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Start a new cached session",
	Long: `Create a session with a fresh id and put it at the front of the cached
index. The id is printed so it can be passed to add.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		title := strings.TrimSpace(strings.Join(args, " "))
		if title == "" {
			title = "New conversation"
		}

		id := uuid.NewString()
		outcome, err := cache.AddSessionToCache(internal.SessionMetadata{
			ID:             id,
			Title:          title,
			LastActivityAt: time.Now(),
		})
		if err != nil {
			return err
		}
		if !outcome.Stored() {
			return fmt.Errorf("session %s could not be cached", id)
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
