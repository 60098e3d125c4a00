package model

import "fmt"

// PlayerTotals holds raw aggregates for one player over all of their results
type PlayerTotals struct {
	PlayerID     PlayerID
	DisplayName  string
	GamesPlayed  int
	Wins         int
	TotalPoints  int
	TotalFarkles int
	HighScore    int
}

// Record folds a single result into the totals
func (t *PlayerTotals) Record(r GameResult) {
	t.GamesPlayed++
	if r.Won {
		t.Wins++
	}
	t.TotalPoints += r.Score
	t.TotalFarkles += r.Farkles
	if r.Score > t.HighScore {
		t.HighScore = r.Score
	}
}

// AvgScore is the mean score per game, 0 when no games have been played
func (t PlayerTotals) AvgScore() float64 {
	if t.GamesPlayed == 0 {
		return 0
	}
	return float64(t.TotalPoints) / float64(t.GamesPlayed)
}

// SortKey selects the aggregate a leaderboard is ranked by
type SortKey string

const (
	SortByAvgScore    SortKey = "avg_score"
	SortByWins        SortKey = "wins"
	SortByTotalPoints SortKey = "total_points"
)

// Leaderboard limits
const (
	DefaultLeaderboardLimit = 25
	MaxLeaderboardLimit     = 100
)

// ParseSortKey validates a sort key, defaulting to avg_score when empty
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortByAvgScore, nil
	case SortByAvgScore, SortByWins, SortByTotalPoints:
		return SortKey(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
	}
}

// ValidateLimit checks a leaderboard limit is within 1..MaxLeaderboardLimit
func ValidateLimit(limit int) error {
	if limit < 1 || limit > MaxLeaderboardLimit {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	return nil
}

// Value returns the totals' value for this key
func (k SortKey) Value(t PlayerTotals) float64 {
	switch k {
	case SortByWins:
		return float64(t.Wins)
	case SortByTotalPoints:
		return float64(t.TotalPoints)
	default:
		return t.AvgScore()
	}
}
