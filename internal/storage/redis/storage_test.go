package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.Store = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestKeysAreNamespaced() {
	_, err := s.storage.CreatePlayer(s.Ctx,
		&model.User{ID: "u1", LoginType: model.LoginTypeAnonymous},
		&model.PlayerProfile{ID: "p1", UserID: "u1", DisplayName: "Alice"},
	)
	s.Require().NoError(err)

	s.True(s.mini.Exists("farkle:user:u1"))
	s.True(s.mini.Exists("farkle:player:p1"))
	s.True(s.mini.Exists(userPlayersIndexKey("u1")))
}

func (s *StorageSuite) TestDeletePlayerRemovesIndexes() {
	pid := model.PlayerID("p1")
	_, err := s.storage.CreatePlayer(s.Ctx,
		&model.User{ID: "u1"},
		&model.PlayerProfile{ID: pid, UserID: "u1", DisplayName: "Alice"},
	)
	s.Require().NoError(err)
	s.Require().NoError(s.storage.CreateGame(s.Ctx, &model.Game{
		ID:      "g1",
		UserID:  "u1",
		Results: []model.GameResult{{ID: "r1", GameID: "g1", PlayerID: &pid, Score: 300}},
	}))
	s.True(s.mini.Exists(playerResultsIndexKey(pid)))

	s.Require().NoError(s.storage.DeletePlayer(s.Ctx, pid))

	s.False(s.mini.Exists(playerKey(pid)))
	s.False(s.mini.Exists(playerResultsIndexKey(pid)))
	s.True(s.mini.Exists(resultKey("r1")), "results outlive their player")

	members, err := s.mini.Members(rankedPlayersIndexKey())
	if err == nil {
		s.NotContains(members, string(pid))
	}
}

func (s *StorageSuite) TestCreateGameFailsWhenConnectionLost() {
	s.mini.Close()

	err := s.storage.CreateGame(s.Ctx, &model.Game{ID: "g1", UserID: "u1"})
	s.Error(err)
	s.NotErrorIs(err, model.ErrUserNotFound)
}
