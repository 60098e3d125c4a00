package stats

import (
	"cmp"
	"context"
	"slices"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/storage"
)

// Service computes player statistics and leaderboards
type Service struct {
	storage storage.Storage
}

// New creates a new stats Service
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// PlayerStats returns aggregates over all of a player's results
func (s *Service) PlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerTotals, error) {
	return s.storage.PlayerTotals(ctx, id)
}

// Leaderboard ranks players with at least one result by key, descending,
// and returns at most limit entries. Ties are ordered by player ID.
func (s *Service) Leaderboard(ctx context.Context, key model.SortKey, limit int) ([]model.PlayerTotals, error) {
	key, err := model.ParseSortKey(string(key))
	if err != nil {
		return nil, err
	}
	if err := model.ValidateLimit(limit); err != nil {
		return nil, err
	}

	totals, err := s.storage.LeaderboardTotals(ctx)
	if err != nil {
		return nil, err
	}

	Rank(totals, key)
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}

// UserPlayers returns totals for every profile the user owns, including
// profiles that have not played yet
func (s *Service) UserPlayers(ctx context.Context, userID model.UserID) ([]model.PlayerTotals, error) {
	return s.storage.UserPlayerTotals(ctx, userID)
}

// Rank sorts totals in place by key, highest first, breaking ties by player ID
func Rank(totals []model.PlayerTotals, key model.SortKey) {
	slices.SortFunc(totals, func(a, b model.PlayerTotals) int {
		if c := cmp.Compare(key.Value(b), key.Value(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
}
