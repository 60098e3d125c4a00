package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/farklestats/internal/storage/storagetest"
)

// The suite needs a disposable database, e.g.
// FARKLE_TEST_POSTGRES_DSN="host=localhost user=postgres password=postgres dbname=farkle_test sslmode=disable"
const dsnEnv = "FARKLE_TEST_POSTGRES_DSN"

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	if os.Getenv(dsnEnv) == "" {
		t.Skipf("%s not set", dsnEnv)
	}
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	store, err := New(os.Getenv(dsnEnv))
	s.Require().NoError(err)

	// Start every test from empty tables
	err = store.db.Exec(`TRUNCATE game_results, games, player_profiles, users`).Error
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
