package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/farklestats/internal/api/request"
	"github.com/mcoot/farklestats/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameSubmitCmd())
	cmd.AddCommand(newGameGetCmd())

	return cmd
}

func newGameSubmitCmd() *cobra.Command {
	var user, playedAt string
	var results []string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record a finished game",
		Long: `Record a finished game. Pass one --result per player as
player_id:score:turns:farkles[:won], for example:

  farkle game submit --user u1 --result p1:9800:8:1:won --result p2:8700:9:3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			if len(results) == 0 {
				return fmt.Errorf("at least one --result is required")
			}

			req := request.SubmitGameRequest{UserID: user}
			if playedAt != "" {
				t, err := time.Parse(time.RFC3339, playedAt)
				if err != nil {
					return fmt.Errorf("--played-at must be RFC3339: %w", err)
				}
				req.PlayedAt = &t
			}
			for _, spec := range results {
				entry, err := ParseResultSpec(spec)
				if err != nil {
					return err
				}
				req.Results = append(req.Results, entry)
			}

			var result response.SubmittedGame
			if err := client.Post(cmd.Context(), "/api/v1/games", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User id that recorded the game (required)")
	cmd.Flags().StringVar(&playedAt, "played-at", "", "When the game was played, RFC3339 (default now)")
	cmd.Flags().StringArrayVar(&results, "result", nil, "player_id:score:turns:farkles[:won] (repeatable)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game_id>",
		Short: "Show a recorded game and its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Get(cmd.Context(), "/api/v1/games/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

// ParseResultSpec parses player_id:score:turns:farkles[:won]. The optional
// last field accepts won/win/true/yes/1 or lost/loss/false/no/0.
func ParseResultSpec(spec string) (request.ResultEntry, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 4 && len(parts) != 5 {
		return request.ResultEntry{}, fmt.Errorf("result %q: want player_id:score:turns:farkles[:won]", spec)
	}

	entry := request.ResultEntry{PlayerID: strings.TrimSpace(parts[0])}
	if entry.PlayerID == "" {
		return request.ResultEntry{}, fmt.Errorf("result %q: player_id is empty", spec)
	}

	nums := []struct {
		name string
		dst  *int
	}{
		{"score", &entry.Score},
		{"turns", &entry.Turns},
		{"farkles", &entry.Farkles},
	}
	for i, n := range nums {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i+1]))
		if err != nil {
			return request.ResultEntry{}, fmt.Errorf("result %q: %s must be an integer", spec, n.name)
		}
		*n.dst = v
	}

	if len(parts) == 5 {
		switch strings.ToLower(strings.TrimSpace(parts[4])) {
		case "won", "win", "true", "yes", "1":
			entry.Won = true
		case "lost", "loss", "false", "no", "0", "":
		default:
			return request.ResultEntry{}, fmt.Errorf("result %q: unknown outcome %q", spec, parts[4])
		}
	}

	return entry, nil
}
