package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users   map[model.UserID]model.User
	players map[model.PlayerID]model.PlayerProfile
	games   map[model.GameID]model.Game

	// userPlayers keeps each user's players in creation order
	userPlayers map[model.UserID][]model.PlayerID
	// playerResults indexes results by player for aggregation
	playerResults map[model.PlayerID][]resultRef
}

// resultRef locates a result inside a stored game
type resultRef struct {
	gameID model.GameID
	index  int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]model.User),
		players:       make(map[model.PlayerID]model.PlayerProfile),
		games:         make(map[model.GameID]model.Game),
		userPlayers:   make(map[model.UserID][]model.PlayerID),
		playerResults: make(map[model.PlayerID][]resultRef),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op for the in-memory store
func (s *Storage) Close() error {
	return nil
}

// User operations

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, user *model.User, player *model.PlayerProfile) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := false
	if _, ok := s.users[user.ID]; !ok {
		s.users[user.ID] = *user
		created = true
	}

	s.players[player.ID] = *player
	s.userPlayers[player.UserID] = append(s.userPlayers[player.UserID], player.ID)
	return created, nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}

	for _, ref := range s.playerResults[id] {
		s.games[ref.gameID].Results[ref.index].PlayerID = nil
	}
	delete(s.playerResults, id)
	delete(s.players, id)
	s.userPlayers[player.UserID] = slices.DeleteFunc(s.userPlayers[player.UserID], func(pid model.PlayerID) bool {
		return pid == id
	})
	return nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	if err := game.CheckDistinctPlayers(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[game.UserID]; !ok {
		return model.ErrUserNotFound
	}
	for _, r := range game.Results {
		if r.PlayerID == nil {
			continue
		}
		if _, ok := s.players[*r.PlayerID]; !ok {
			return &model.PlayerNotFoundError{PlayerID: *r.PlayerID}
		}
	}

	stored := cloneGame(*game)
	s.games[game.ID] = stored
	for i, r := range stored.Results {
		if r.PlayerID == nil {
			continue
		}
		s.playerResults[*r.PlayerID] = append(s.playerResults[*r.PlayerID], resultRef{gameID: game.ID, index: i})
	}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	clone := cloneGame(game)
	return &clone, nil
}

// Aggregate queries

func (s *Storage) PlayerTotals(ctx context.Context, id model.PlayerID) (*model.PlayerTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	totals := s.totalsFor(player)
	return &totals, nil
}

func (s *Storage) LeaderboardTotals(ctx context.Context) ([]model.PlayerTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.PlayerTotals
	for id, refs := range s.playerResults {
		if len(refs) == 0 {
			continue
		}
		out = append(out, s.totalsFor(s.players[id]))
	}
	return out, nil
}

func (s *Storage) UserPlayerTotals(ctx context.Context, userID model.UserID) ([]model.PlayerTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.users[userID]; !ok {
		return nil, model.ErrUserNotFound
	}

	out := make([]model.PlayerTotals, 0, len(s.userPlayers[userID]))
	for _, id := range s.userPlayers[userID] {
		out = append(out, s.totalsFor(s.players[id]))
	}
	slices.SortFunc(out, func(a, b model.PlayerTotals) int {
		pa, pb := s.players[a.PlayerID], s.players[b.PlayerID]
		if c := pa.CreatedAt.Compare(pb.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.PlayerID), string(b.PlayerID))
	})
	return out, nil
}

// totalsFor must be called with the lock held
func (s *Storage) totalsFor(player model.PlayerProfile) model.PlayerTotals {
	totals := model.PlayerTotals{
		PlayerID:    player.ID,
		DisplayName: player.DisplayName,
	}
	for _, ref := range s.playerResults[player.ID] {
		totals.Record(s.games[ref.gameID].Results[ref.index])
	}
	return totals
}

func cloneGame(g model.Game) model.Game {
	results := make([]model.GameResult, len(g.Results))
	for i, r := range g.Results {
		if r.PlayerID != nil {
			pid := *r.PlayerID
			r.PlayerID = &pid
		}
		results[i] = r
	}
	g.Results = results
	return g
}
