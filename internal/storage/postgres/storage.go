// Package postgres provides a PostgreSQL implementation of storage.Storage using gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/storage"
)

// Ensure Storage implements storage.Storage
var _ storage.Storage = (*Storage)(nil)

// Storage implements storage.Storage on PostgreSQL.
type Storage struct {
	db *gorm.DB
}

// New connects to the database at dsn and migrates the schema.
func New(dsn string) (*Storage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&userRow{}, &playerRow{}, &gameRow{}, &resultRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where("user_id = ?", string(id)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userFromRow(row), nil
}

func (s *Storage) CreatePlayer(ctx context.Context, user *model.User, player *model.PlayerProfile) (bool, error) {
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&userRow{
			UserID:    string(user.ID),
			LoginType: string(user.LoginType),
			CreatedAt: user.CreatedAt,
		})
		if res.Error != nil {
			return fmt.Errorf("failed to insert user: %w", res.Error)
		}
		created = res.RowsAffected > 0

		err := tx.Omit(clause.Associations).Create(&playerRow{
			PlayerID:    string(player.ID),
			UserID:      string(player.UserID),
			DisplayName: player.DisplayName,
			CreatedAt:   player.CreatedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to insert player: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerProfile, error) {
	var row playerRow
	err := s.db.WithContext(ctx).Where("player_id = ?", string(id)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return playerFromRow(row), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&resultRow{}).
			Where("player_id = ?", string(id)).
			Update("player_id", nil).Error
		if err != nil {
			return fmt.Errorf("failed to detach results: %w", err)
		}

		res := tx.Where("player_id = ?", string(id)).Delete(&playerRow{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete player: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return model.ErrPlayerNotFound
		}
		return nil
	})
}

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	if err := game.CheckDistinctPlayers(); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userRow{}).Where("user_id = ?", string(game.UserID)).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if count == 0 {
			return model.ErrUserNotFound
		}

		for _, pid := range game.PlayerIDs() {
			if err := tx.Model(&playerRow{}).Where("player_id = ?", string(pid)).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check player: %w", err)
			}
			if count == 0 {
				return &model.PlayerNotFoundError{PlayerID: pid}
			}
		}

		row := gameRow{
			GameID:   string(game.ID),
			UserID:   string(game.UserID),
			PlayedAt: game.PlayedAt,
		}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert game: %w", err)
		}

		if len(game.Results) == 0 {
			return nil
		}
		results := make([]resultRow, len(game.Results))
		for i, r := range game.Results {
			results[i] = resultRow{
				ResultID:   string(r.ID),
				GameID:     string(game.ID),
				Position:   i,
				Score:      r.Score,
				TurnsTaken: r.TurnsTaken,
				Farkles:    r.Farkles,
				Won:        r.Won,
			}
			if r.PlayerID != nil {
				pid := string(*r.PlayerID)
				results[i].PlayerID = &pid
			}
		}
		if err := tx.Omit(clause.Associations).Create(&results).Error; err != nil {
			return fmt.Errorf("failed to insert results: %w", err)
		}
		return nil
	})
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var row gameRow
	err := s.db.WithContext(ctx).
		Preload("Results", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("game_id = ?", string(id)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game := &model.Game{
		ID:       model.GameID(row.GameID),
		UserID:   model.UserID(row.UserID),
		PlayedAt: row.PlayedAt.UTC(),
	}
	for _, r := range row.Results {
		game.Results = append(game.Results, resultFromRow(r))
	}
	return game, nil
}

func (s *Storage) PlayerTotals(ctx context.Context, id model.PlayerID) (*model.PlayerTotals, error) {
	totals, err := s.queryTotals(ctx, playerTotalsQuery, string(id))
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return &totals[0], nil
}

func (s *Storage) LeaderboardTotals(ctx context.Context) ([]model.PlayerTotals, error) {
	return s.queryTotals(ctx, leaderboardTotalsQuery)
}

func (s *Storage) UserPlayerTotals(ctx context.Context, userID model.UserID) ([]model.PlayerTotals, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.queryTotals(ctx, userPlayerTotalsQuery, string(userID))
}

func (s *Storage) queryTotals(ctx context.Context, query string, args ...any) ([]model.PlayerTotals, error) {
	var rows []totalsRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}

	out := make([]model.PlayerTotals, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}
