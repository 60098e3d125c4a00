package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerTotalsRecord(t *testing.T) {
	var totals PlayerTotals

	totals.Record(GameResult{Score: 9800, TurnsTaken: 8, Farkles: 1, Won: true})
	totals.Record(GameResult{Score: 8700, TurnsTaken: 9, Farkles: 3})

	assert.Equal(t, 2, totals.GamesPlayed)
	assert.Equal(t, 1, totals.Wins)
	assert.Equal(t, 18500, totals.TotalPoints)
	assert.Equal(t, 4, totals.TotalFarkles)
	assert.Equal(t, 9800, totals.HighScore)
	assert.InDelta(t, 9250.0, totals.AvgScore(), 0.0001)
}

func TestAvgScoreWithoutGamesIsZero(t *testing.T) {
	assert.Equal(t, 0.0, PlayerTotals{}.AvgScore())
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"", SortByAvgScore},
		{"avg_score", SortByAvgScore},
		{"wins", SortByWins},
		{"total_points", SortByTotalPoints},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortKey(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSortKeyRejectsUnknown(t *testing.T) {
	_, err := ParseSortKey("farkles")
	assert.ErrorIs(t, err, ErrInvalidSortKey)
}

func TestValidateLimit(t *testing.T) {
	assert.NoError(t, ValidateLimit(1))
	assert.NoError(t, ValidateLimit(MaxLeaderboardLimit))
	assert.ErrorIs(t, ValidateLimit(0), ErrInvalidLimit)
	assert.ErrorIs(t, ValidateLimit(-5), ErrInvalidLimit)
	assert.ErrorIs(t, ValidateLimit(MaxLeaderboardLimit+1), ErrInvalidLimit)
}

func TestSortKeyValue(t *testing.T) {
	totals := PlayerTotals{GamesPlayed: 4, Wins: 3, TotalPoints: 10000}

	assert.Equal(t, 2500.0, SortByAvgScore.Value(totals))
	assert.Equal(t, 3.0, SortByWins.Value(totals))
	assert.Equal(t, 10000.0, SortByTotalPoints.Value(totals))
}
