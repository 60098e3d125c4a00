// Package sqlite provides a SQLite-backed implementation of storage.Storage.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/storage"
)

// Ensure Storage implements storage.Storage
var _ storage.Storage = (*Storage)(nil)

// Storage implements storage.Storage using SQLite.
type Storage struct {
	db *sql.DB
}

// New opens the database at path, creating parent directories and running
// migrations.
func New(path string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection serializes transactions
	// instead of failing them with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// GetUser loads a user by id.
func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var (
		user      model.User
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, login_type, created_at FROM users WHERE user_id = ?`, id,
	).Scan(&user.ID, &user.LoginType, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.CreatedAt = fromUnixMicro(createdAt)
	return &user, nil
}

// CreatePlayer inserts the player, inserting the user first when absent.
func (s *Storage) CreatePlayer(ctx context.Context, user *model.User, player *model.PlayerProfile) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (user_id, login_type, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO NOTHING`,
		user.ID, user.LoginType, user.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert user: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO player_profiles (player_id, user_id, display_name, created_at) VALUES (?, ?, ?, ?)`,
		player.ID, player.UserID, player.DisplayName, player.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted > 0, nil
}

// GetPlayer loads a player profile by id.
func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerProfile, error) {
	var (
		player    model.PlayerProfile
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT player_id, user_id, display_name, created_at FROM player_profiles WHERE player_id = ?`, id,
	).Scan(&player.ID, &player.UserID, &player.DisplayName, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	player.CreatedAt = fromUnixMicro(createdAt)
	return &player, nil
}

// DeletePlayer removes a profile. The foreign key nulls player_id on its results.
func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM player_profiles WHERE player_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

// CreateGame validates references and writes the game with its results in one transaction.
func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	if err := game.CheckDistinctPlayers(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ok, err := exists(ctx, tx, `SELECT 1 FROM users WHERE user_id = ?`, game.UserID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return model.ErrUserNotFound
	}
	for _, pid := range game.PlayerIDs() {
		ok, err := exists(ctx, tx, `SELECT 1 FROM player_profiles WHERE player_id = ?`, pid)
		if err != nil {
			return fmt.Errorf("failed to check player: %w", err)
		}
		if !ok {
			return &model.PlayerNotFoundError{PlayerID: pid}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (game_id, user_id, played_at) VALUES (?, ?, ?)`,
		game.ID, game.UserID, game.PlayedAt.UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	for i, r := range game.Results {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO game_results (result_id, game_id, player_id, position, score, turns_taken, farkles, won)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, game.ID, nullablePlayerID(r.PlayerID), i, r.Score, r.TurnsTaken, r.Farkles, r.Won,
		)
		if err != nil {
			return fmt.Errorf("failed to insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGame loads a game and its results in submission order.
func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var (
		game     model.Game
		playedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT game_id, user_id, played_at FROM games WHERE game_id = ?`, id,
	).Scan(&game.ID, &game.UserID, &playedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	game.PlayedAt = fromUnixMicro(playedAt)

	rows, err := s.db.QueryContext(ctx,
		`SELECT result_id, player_id, score, turns_taken, farkles, won
		 FROM game_results WHERE game_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r        model.GameResult
			playerID sql.NullString
		)
		if err := rows.Scan(&r.ID, &playerID, &r.Score, &r.TurnsTaken, &r.Farkles, &r.Won); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.GameID = game.ID
		if playerID.Valid {
			pid := model.PlayerID(playerID.String)
			r.PlayerID = &pid
		}
		game.Results = append(game.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return &game, nil
}

// PlayerTotals aggregates a single player's results.
func (s *Storage) PlayerTotals(ctx context.Context, id model.PlayerID) (*model.PlayerTotals, error) {
	totals, err := s.queryTotals(ctx, playerTotalsQuery, id)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return &totals[0], nil
}

// LeaderboardTotals aggregates every player that has at least one result.
func (s *Storage) LeaderboardTotals(ctx context.Context) ([]model.PlayerTotals, error) {
	return s.queryTotals(ctx, leaderboardTotalsQuery)
}

// UserPlayerTotals aggregates every profile owned by the user.
func (s *Storage) UserPlayerTotals(ctx context.Context, userID model.UserID) ([]model.PlayerTotals, error) {
	ok, err := exists(ctx, s.db, `SELECT 1 FROM users WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.queryTotals(ctx, userPlayerTotalsQuery, userID)
}

func (s *Storage) queryTotals(ctx context.Context, query string, args ...any) ([]model.PlayerTotals, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}
	defer rows.Close()

	var out []model.PlayerTotals
	for rows.Next() {
		var t model.PlayerTotals
		if err := rows.Scan(&t.PlayerID, &t.DisplayName, &t.GamesPlayed, &t.Wins, &t.TotalPoints, &t.TotalFarkles, &t.HighScore); err != nil {
			return nil, fmt.Errorf("failed to scan totals: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate totals: %w", err)
	}
	return out, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func exists(ctx context.Context, q queryer, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func nullablePlayerID(id *model.PlayerID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*id), Valid: true}
}

func fromUnixMicro(n int64) time.Time {
	return time.UnixMicro(n).UTC()
}
