package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/farklestats/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == FormatJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == FormatJSON {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.RegisteredPlayer:
		o.printRegisteredPlayer(v)
	case response.PlayerStats:
		o.printPlayerStats(v)
	case response.SubmittedGame:
		fmt.Fprintf(o.w, "Game recorded: %s\n", v.GameID)
	case response.Game:
		o.printGame(v)
	case response.Leaderboard:
		o.printLeaderboard(v)
	case response.UserPlayers:
		o.printUserPlayers(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case SeedResult:
		o.printSeedResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) table() *tabwriter.Writer {
	return tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
}

func (o *Output) printRegisteredPlayer(p response.RegisteredPlayer) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.PlayerID)
	if p.UserCreated {
		fmt.Fprintf(o.w, "User: %s (new)\n", p.UserID)
	} else {
		fmt.Fprintf(o.w, "User: %s\n", p.UserID)
	}
}

func (o *Output) printPlayerStats(s response.PlayerStats) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", s.DisplayName, s.PlayerID)
	fmt.Fprintf(o.w, "Games played: %d\n", s.GamesPlayed)
	fmt.Fprintf(o.w, "Wins: %d\n", s.Wins)
	fmt.Fprintf(o.w, "Total points: %d\n", s.TotalPoints)
	fmt.Fprintf(o.w, "Average score: %.1f\n", s.AvgScore)
	fmt.Fprintf(o.w, "Farkles: %d\n", s.TotalFarkles)
	fmt.Fprintf(o.w, "High score: %d\n", s.HighScore)
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.GameID)
	fmt.Fprintf(o.w, "User: %s\n", g.UserID)
	fmt.Fprintf(o.w, "Played: %s\n\n", g.PlayedAt.Format("2006-01-02 15:04:05 MST"))

	tw := o.table()
	fmt.Fprintln(tw, "PLAYER\tSCORE\tTURNS\tFARKLES\tWON")
	for _, r := range g.Results {
		player := "(deleted)"
		if r.PlayerID != nil {
			player = *r.PlayerID
		}
		won := ""
		if r.Won {
			won = "yes"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", player, r.Score, r.Turns, r.Farkles, won)
	}
	_ = tw.Flush()
}

func (o *Output) printLeaderboard(l response.Leaderboard) {
	if len(l.Rows) == 0 {
		fmt.Fprintln(o.w, "No games recorded yet.")
		return
	}

	fmt.Fprintf(o.w, "Leaderboard by %s (top %d)\n\n", strings.ReplaceAll(l.Sort, "_", " "), l.Limit)
	tw := o.table()
	fmt.Fprintln(tw, "#\tPLAYER\tID\tWINS\tAVG SCORE\tTOTAL POINTS")
	for i, r := range l.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.1f\t%d\n", i+1, r.DisplayName, r.PlayerID, r.Wins, r.AvgScore, r.TotalPoints)
	}
	_ = tw.Flush()
}

func (o *Output) printUserPlayers(u response.UserPlayers) {
	fmt.Fprintf(o.w, "User: %s\n", u.UserID)
	if len(u.Players) == 0 {
		fmt.Fprintln(o.w, "No players.")
		return
	}

	fmt.Fprintln(o.w)
	tw := o.table()
	fmt.Fprintln(tw, "PLAYER\tID\tGAMES\tWINS\tAVG SCORE\tTOTAL POINTS")
	for _, p := range u.Players {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.1f\t%d\n", p.DisplayName, p.PlayerID, p.GamesPlayed, p.Wins, p.AvgScore, p.TotalPoints)
	}
	_ = tw.Flush()
}

func (o *Output) printSeedResult(s SeedResult) {
	fmt.Fprintf(o.w, "Seeded user %s\n", s.UserID)
	for _, p := range s.Players {
		fmt.Fprintf(o.w, "  player %s (%s)\n", p.DisplayName, p.PlayerID)
	}
	fmt.Fprintf(o.w, "  game %s\n", s.GameID)
}
