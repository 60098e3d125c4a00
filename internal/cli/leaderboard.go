package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/farklestats/internal/api/response"
)

func newLeaderboardCmd() *cobra.Command {
	var sort string
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the ranked leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if sort != "" {
				q.Set("sort", sort)
			}
			if cmd.Flags().Changed("limit") {
				q.Set("limit", strconv.Itoa(limit))
			}

			path := "/api/v1/leaderboard"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result response.Leaderboard
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sort, "sort", "", "Sort key: avg_score, wins, total_points (default avg_score)")
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum rows, 1-100")

	return cmd
}
