package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/farklestats/internal/api/response"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "players <user_id>",
		Short: "List a user's players with their totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.UserPlayers
			if err := client.Get(cmd.Context(), "/api/v1/users/"+url.PathEscape(args[0])+"/players", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
