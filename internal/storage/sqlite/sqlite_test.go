package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	path    string
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "nested", "farkle.db")

	store, err := New(s.path)
	s.Require().NoError(err)

	s.storage = store
	s.Store = store
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) TestReopenKeepsData() {
	_, err := s.storage.CreatePlayer(s.Ctx,
		&model.User{ID: "u1", LoginType: model.LoginTypeAnonymous},
		&model.PlayerProfile{ID: "p1", UserID: "u1", DisplayName: "Alice"},
	)
	s.Require().NoError(err)
	s.Require().NoError(s.storage.Close())

	reopened, err := New(s.path)
	s.Require().NoError(err)
	s.storage = reopened

	player, err := reopened.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alice", player.DisplayName)
}

func (s *StorageSuite) TestForeignKeysEnforced() {
	_, err := s.storage.db.ExecContext(s.Ctx,
		`INSERT INTO player_profiles (player_id, user_id, display_name, created_at) VALUES ('p1', 'ghost', 'x', 0)`)
	s.Error(err)
}

func (s *StorageSuite) TestNegativeScoreRejectedBySchema() {
	_, err := s.storage.CreatePlayer(s.Ctx,
		&model.User{ID: "u1"},
		&model.PlayerProfile{ID: "p1", UserID: "u1", DisplayName: "Alice"},
	)
	s.Require().NoError(err)

	pid := model.PlayerID("p1")
	err = s.storage.CreateGame(s.Ctx, &model.Game{
		ID:      "g1",
		UserID:  "u1",
		Results: []model.GameResult{{ID: "r1", PlayerID: &pid, Score: -1}},
	})
	s.Error(err)

	_, err = s.storage.GetGame(s.Ctx, "g1")
	s.ErrorIs(err, model.ErrGameNotFound, "rolled back game must not be visible")
}
