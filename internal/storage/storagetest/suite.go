// Package storagetest holds a behavioural test suite shared by every
// storage.Storage backend.
package storagetest

import (
	"context"
	"strings"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/storage"
)

// Suite exercises the storage contract. Backends embed it and assign Store
// (and Ctx) in their SetupTest.
type Suite struct {
	suite.Suite
	Store storage.Storage
	Ctx   context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) user(id string) *model.User {
	return &model.User{
		ID:        model.UserID(id),
		LoginType: model.LoginTypeAnonymous,
		CreatedAt: baseTime,
	}
}

func (s *Suite) createPlayer(userID, playerID, name string, offset time.Duration) {
	player := &model.PlayerProfile{
		ID:          model.PlayerID(playerID),
		UserID:      model.UserID(userID),
		DisplayName: name,
		CreatedAt:   baseTime.Add(offset),
	}
	_, err := s.Store.CreatePlayer(s.Ctx, s.user(userID), player)
	s.Require().NoError(err)
}

func (s *Suite) result(id, playerID string, score, turns, farkles int, won bool) model.GameResult {
	pid := model.PlayerID(playerID)
	return model.GameResult{
		ID:         model.ResultID(id),
		PlayerID:   &pid,
		Score:      score,
		TurnsTaken: turns,
		Farkles:    farkles,
		Won:        won,
	}
}

func (s *Suite) createGame(gameID, userID string, results ...model.GameResult) {
	for i := range results {
		results[i].GameID = model.GameID(gameID)
	}
	err := s.Store.CreateGame(s.Ctx, &model.Game{
		ID:       model.GameID(gameID),
		UserID:   model.UserID(userID),
		PlayedAt: baseTime.Add(time.Hour),
		Results:  results,
	})
	s.Require().NoError(err)
}

// User and player tests

func (s *Suite) TestCreatePlayerCreatesUser() {
	player := &model.PlayerProfile{ID: "p1", UserID: "u1", DisplayName: "Alice", CreatedAt: baseTime}

	created, err := s.Store.CreatePlayer(s.Ctx, s.user("u1"), player)
	s.Require().NoError(err)
	s.True(created)

	user, err := s.Store.GetUser(s.Ctx, "u1")
	s.Require().NoError(err)
	s.Equal(model.LoginTypeAnonymous, user.LoginType)
	s.True(baseTime.Equal(user.CreatedAt))

	got, err := s.Store.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), got.UserID)
	s.Equal("Alice", got.DisplayName)
	s.True(baseTime.Equal(got.CreatedAt))
}

func (s *Suite) TestCreatePlayerReusesExistingUser() {
	s.createPlayer("u1", "p1", "Alice", 0)

	later := s.user("u1")
	later.CreatedAt = baseTime.Add(24 * time.Hour)
	created, err := s.Store.CreatePlayer(s.Ctx, later, &model.PlayerProfile{
		ID: "p2", UserID: "u1", DisplayName: "Bob", CreatedAt: later.CreatedAt,
	})
	s.Require().NoError(err)
	s.False(created)

	user, err := s.Store.GetUser(s.Ctx, "u1")
	s.Require().NoError(err)
	s.True(baseTime.Equal(user.CreatedAt), "existing user must not be overwritten")
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.Store.GetUser(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Store.GetPlayer(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Game tests

func (s *Suite) TestCreateAndGetGame() {
	s.createPlayer("u1", "p1", "Alice", 0)
	s.createPlayer("u1", "p2", "Bob", time.Second)

	s.createGame("g1", "u1",
		s.result("r1", "p2", 8700, 9, 3, false),
		s.result("r2", "p1", 9800, 8, 1, true),
	)

	game, err := s.Store.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), game.UserID)
	s.True(baseTime.Add(time.Hour).Equal(game.PlayedAt))
	s.Require().Len(game.Results, 2)

	first := game.Results[0]
	s.Equal(model.ResultID("r1"), first.ID)
	s.Equal(model.GameID("g1"), first.GameID)
	s.Require().NotNil(first.PlayerID)
	s.Equal(model.PlayerID("p2"), *first.PlayerID)
	s.Equal(8700, first.Score)
	s.Equal(9, first.TurnsTaken)
	s.Equal(3, first.Farkles)
	s.False(first.Won)

	s.Equal(model.ResultID("r2"), game.Results[1].ID)
	s.True(game.Results[1].Won)
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Store.GetGame(s.Ctx, "nope")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestCreateGameUnknownUserPersistsNothing() {
	s.createPlayer("u1", "p1", "Alice", 0)

	err := s.Store.CreateGame(s.Ctx, &model.Game{
		ID:       "g1",
		UserID:   "ghost",
		PlayedAt: baseTime,
		Results:  []model.GameResult{s.result("r1", "p1", 100, 1, 0, true)},
	})
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.Store.GetGame(s.Ctx, "g1")
	s.ErrorIs(err, model.ErrGameNotFound)

	totals, err := s.Store.PlayerTotals(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(0, totals.GamesPlayed)
}

func (s *Suite) TestCreateGameUnknownPlayerIsAtomic() {
	s.createPlayer("u1", "p1", "Alice", 0)

	err := s.Store.CreateGame(s.Ctx, &model.Game{
		ID:       "g1",
		UserID:   "u1",
		PlayedAt: baseTime,
		Results: []model.GameResult{
			s.result("r1", "p1", 9800, 8, 1, true),
			s.result("r2", "ghost", 8700, 9, 3, false),
		},
	})
	s.Require().ErrorIs(err, model.ErrPlayerNotFound)

	var notFound *model.PlayerNotFoundError
	s.Require().ErrorAs(err, &notFound)
	s.Equal(model.PlayerID("ghost"), notFound.PlayerID)

	_, err = s.Store.GetGame(s.Ctx, "g1")
	s.ErrorIs(err, model.ErrGameNotFound)

	totals, err := s.Store.PlayerTotals(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(0, totals.GamesPlayed, "no result may be persisted for a rejected game")

	leaderboard, err := s.Store.LeaderboardTotals(s.Ctx)
	s.Require().NoError(err)
	s.Empty(leaderboard)
}

func (s *Suite) TestCreateGameDuplicatePlayerPersistsNothing() {
	s.createPlayer("u1", "p1", "Alice", 0)

	err := s.Store.CreateGame(s.Ctx, &model.Game{
		ID:       "g1",
		UserID:   "u1",
		PlayedAt: baseTime,
		Results: []model.GameResult{
			s.result("r1", "p1", 9800, 8, 1, true),
			s.result("r2", "p1", 8700, 9, 3, false),
		},
	})
	s.Require().ErrorIs(err, model.ErrDuplicatePlayer)

	_, err = s.Store.GetGame(s.Ctx, "g1")
	s.ErrorIs(err, model.ErrGameNotFound)

	totals, err := s.Store.PlayerTotals(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(0, totals.GamesPlayed)
}

func (s *Suite) TestPlayedAtRoundTripsAcrossRange() {
	s.createPlayer("u1", "p1", "Alice", 0)

	times := []time.Time{
		time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 23, 59, 59, 123456000, time.UTC),
	}
	for i, playedAt := range times {
		id := model.GameID("g" + string(rune('a'+i)))
		res := s.result("r"+string(rune('a'+i)), "p1", 5000, 6, 0, true)
		res.GameID = id
		s.Require().NoError(s.Store.CreateGame(s.Ctx, &model.Game{
			ID:       id,
			UserID:   "u1",
			PlayedAt: playedAt,
			Results:  []model.GameResult{res},
		}))

		got, err := s.Store.GetGame(s.Ctx, id)
		s.Require().NoError(err)
		s.True(playedAt.Equal(got.PlayedAt), "want %s, got %s", playedAt, got.PlayedAt)
	}
}

func (s *Suite) TestLongUserID() {
	userID := strings.Repeat("u", 300)
	s.createPlayer(userID, "p1", "Alice", 0)
	s.createGame("g1", userID, s.result("r1", "p1", 9800, 8, 1, true))

	u, err := s.Store.GetUser(s.Ctx, model.UserID(userID))
	s.Require().NoError(err)
	s.Equal(model.UserID(userID), u.ID)

	game, err := s.Store.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(model.UserID(userID), game.UserID)

	totals, err := s.Store.UserPlayerTotals(s.Ctx, model.UserID(userID))
	s.Require().NoError(err)
	s.Require().Len(totals, 1)
	s.Equal(1, totals[0].GamesPlayed)
}

// Aggregate tests

func (s *Suite) TestPlayerTotals() {
	s.createPlayer("u1", "p1", "Alice", 0)
	s.createPlayer("u1", "p2", "Bob", time.Second)
	s.createGame("g1", "u1",
		s.result("r1", "p1", 9800, 8, 1, true),
		s.result("r2", "p2", 8700, 9, 3, false),
	)
	s.createGame("g2", "u1",
		s.result("r3", "p1", 8700, 10, 2, false),
		s.result("r4", "p2", 10100, 9, 0, true),
	)

	totals, err := s.Store.PlayerTotals(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.PlayerTotals{
		PlayerID:     "p1",
		DisplayName:  "Alice",
		GamesPlayed:  2,
		Wins:         1,
		TotalPoints:  18500,
		TotalFarkles: 3,
		HighScore:    9800,
	}, *totals)
	s.InDelta(9250.0, totals.AvgScore(), 0.0001)
}

func (s *Suite) TestPlayerTotalsWithoutGames() {
	s.createPlayer("u1", "p1", "Alice", 0)

	totals, err := s.Store.PlayerTotals(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.PlayerTotals{PlayerID: "p1", DisplayName: "Alice"}, *totals)
	s.Zero(totals.AvgScore())
}

func (s *Suite) TestPlayerTotalsNotFound() {
	_, err := s.Store.PlayerTotals(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestLeaderboardTotalsExcludesPlayersWithoutGames() {
	s.createPlayer("u1", "p1", "Alice", 0)
	s.createPlayer("u1", "p2", "Bob", time.Second)
	s.createPlayer("u2", "p3", "Carol", 2*time.Second)
	s.createGame("g1", "u1",
		s.result("r1", "p1", 9800, 8, 1, true),
		s.result("r2", "p2", 8700, 9, 3, false),
	)

	totals, err := s.Store.LeaderboardTotals(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(totals, 2)

	ids := []model.PlayerID{totals[0].PlayerID, totals[1].PlayerID}
	s.ElementsMatch([]model.PlayerID{"p1", "p2"}, ids)
}

func (s *Suite) TestUserPlayerTotalsIncludesPlayersWithoutGames() {
	s.createPlayer("u1", "p2", "Bob", 0)
	s.createPlayer("u1", "p1", "Alice", time.Second)
	s.createPlayer("u2", "p3", "Carol", 2*time.Second)
	s.createGame("g1", "u1", s.result("r1", "p1", 9800, 8, 1, true))

	totals, err := s.Store.UserPlayerTotals(s.Ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(totals, 2)

	s.Equal(model.PlayerTotals{PlayerID: "p2", DisplayName: "Bob"}, totals[0])
	s.Equal(model.PlayerID("p1"), totals[1].PlayerID)
	s.Equal(1, totals[1].GamesPlayed)
	s.Equal(1, totals[1].Wins)
	s.Equal(9800, totals[1].TotalPoints)
}

func (s *Suite) TestUserPlayerTotalsOrdersTiesByPlayerID() {
	s.createPlayer("u1", "p2", "Bob", 0)
	s.createPlayer("u1", "p1", "Alice", 0)
	s.createPlayer("u1", "p0", "Carol", time.Second)

	totals, err := s.Store.UserPlayerTotals(s.Ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(totals, 3)

	ids := []model.PlayerID{totals[0].PlayerID, totals[1].PlayerID, totals[2].PlayerID}
	s.Equal([]model.PlayerID{"p1", "p2", "p0"}, ids)
}

func (s *Suite) TestUserPlayerTotalsUnknownUser() {
	_, err := s.Store.UserPlayerTotals(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Delete tests

func (s *Suite) TestDeletePlayerKeepsResults() {
	s.createPlayer("u1", "p1", "Alice", 0)
	s.createPlayer("u1", "p2", "Bob", time.Second)
	s.createGame("g1", "u1",
		s.result("r1", "p1", 9800, 8, 1, true),
		s.result("r2", "p2", 8700, 9, 3, false),
	)

	s.Require().NoError(s.Store.DeletePlayer(s.Ctx, "p1"))

	_, err := s.Store.GetPlayer(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	game, err := s.Store.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Require().Len(game.Results, 2)
	s.Nil(game.Results[0].PlayerID)
	s.Equal(9800, game.Results[0].Score)
	s.Require().NotNil(game.Results[1].PlayerID)
	s.Equal(model.PlayerID("p2"), *game.Results[1].PlayerID)

	leaderboard, err := s.Store.LeaderboardTotals(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(leaderboard, 1)
	s.Equal(model.PlayerID("p2"), leaderboard[0].PlayerID)

	players, err := s.Store.UserPlayerTotals(s.Ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal(model.PlayerID("p2"), players[0].PlayerID)

	_, err = s.Store.GetUser(s.Ctx, "u1")
	s.NoError(err, "users are never removed")
}

func (s *Suite) TestDeletePlayerNotFound() {
	err := s.Store.DeletePlayer(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
