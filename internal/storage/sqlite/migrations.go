package sqlite

import (
	"context"
	"database/sql"
)

// schema sets up the four stats tables. Users must be created before the
// tables that reference them.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id TEXT PRIMARY KEY,
    login_type TEXT NOT NULL DEFAULT 'anonymous',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS player_profiles (
    player_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    display_name TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(user_id)
);

CREATE TABLE IF NOT EXISTS games (
    game_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    played_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(user_id)
);

CREATE TABLE IF NOT EXISTS game_results (
    result_id TEXT PRIMARY KEY,
    game_id TEXT NOT NULL,
    player_id TEXT,
    position INTEGER NOT NULL,
    score INTEGER NOT NULL CHECK (score >= 0),
    turns_taken INTEGER NOT NULL CHECK (turns_taken >= 0),
    farkles INTEGER NOT NULL CHECK (farkles >= 0),
    won INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
    FOREIGN KEY (player_id) REFERENCES player_profiles(player_id) ON DELETE SET NULL,
    UNIQUE (game_id, player_id)
);

CREATE INDEX IF NOT EXISTS idx_player_profiles_user_id ON player_profiles(user_id);
CREATE INDEX IF NOT EXISTS idx_games_user_id ON games(user_id);
CREATE INDEX IF NOT EXISTS idx_game_results_game_id ON game_results(game_id);
CREATE INDEX IF NOT EXISTS idx_game_results_player_id ON game_results(player_id);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
