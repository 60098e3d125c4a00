package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/farklestats/internal/api/request"
	"github.com/mcoot/farklestats/internal/api/response"
)

// SeedResult describes the sample data created by the seed command
type SeedResult struct {
	UserID  string                      `json:"user_id"`
	Players []response.RegisteredPlayer `json:"players"`
	GameID  string                      `json:"game_id"`
}

func newSeedCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create sample players and a game for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			result := SeedResult{UserID: user}

			for _, name := range []string{"Alice", "Bob"} {
				var p response.RegisteredPlayer
				req := request.RegisterPlayerRequest{UserID: user, DisplayName: name}
				if err := client.Post(ctx, "/api/v1/players", req, &p); err != nil {
					return err
				}
				result.Players = append(result.Players, p)
			}

			game := request.SubmitGameRequest{
				UserID: user,
				Results: []request.ResultEntry{
					{PlayerID: result.Players[0].PlayerID, Score: 9800, Turns: 8, Farkles: 1, Won: true},
					{PlayerID: result.Players[1].PlayerID, Score: 8700, Turns: 9, Farkles: 3},
				},
			}
			var submitted response.SubmittedGame
			if err := client.Post(ctx, "/api/v1/games", game, &submitted); err != nil {
				return err
			}
			result.GameID = submitted.GameID

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "local-device", "User id to seed under")

	return cmd
}
