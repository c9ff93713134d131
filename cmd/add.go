package cmd

import (
	"fmt"
	"strings"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/spf13/cobra"
)

var (
	addRole string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <session-id> <content...>",
	Short: "Append a message to a cached session",
	Long: `Append a message to a session. Only the most recent messages are kept,
and long content is compressed and truncated before it is stored.
The session is added to the index if it is not there yet.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		id := args[0]
		outcome, err := cache.AddMessageToSessionCache(id, internal.Message{
			Role:    addRole,
			Content: strings.Join(args[1:], " "),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch outcome {
		case internal.WriteOK:
			internal.PrintSuccess(out, fmt.Sprintf("Message added to %s", id))
		case internal.WriteDegraded:
			internal.PrintWarning(out, fmt.Sprintf("Message added to %s with reduced history", id))
		default:
			return fmt.Errorf("message could not be cached for session %s", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addRole, "role", internal.RoleUser, "Message role (user, assistant)")
}
