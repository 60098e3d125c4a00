package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/farklestats/internal/api"
	"github.com/mcoot/farklestats/internal/api/response"
	"github.com/mcoot/farklestats/internal/factory"
	"github.com/mcoot/farklestats/internal/testutil"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	app := factory.NewTestApp()
	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		PlayersService: app.PlayersService,
		GamesService:   app.GamesService,
		StatsService:   app.StatsService,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--server", server}, args...))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func runJSON(t *testing.T, server string, result any, args ...string) {
	t.Helper()

	out, err := run(t, server, append([]string{"-o", "json"}, args...)...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), result), out)
}

func TestHealth(t *testing.T) {
	srv := newTestAPI(t)

	out, err := run(t, srv.URL, "health")
	require.NoError(t, err)
	assert.Equal(t, "Status: ok\n", out)
}

func TestRegisterSubmitAndStats(t *testing.T) {
	srv := newTestAPI(t)

	var alice, bob response.RegisteredPlayer
	runJSON(t, srv.URL, &alice, "player", "register", "--user", "u1", "--name", "Alice")
	runJSON(t, srv.URL, &bob, "player", "register", "--user", "u1", "--name", "Bob")
	assert.True(t, alice.UserCreated)
	assert.False(t, bob.UserCreated)

	var game response.SubmittedGame
	runJSON(t, srv.URL, &game, "game", "submit", "--user", "u1",
		"--played-at", "2024-03-01T19:00:00Z",
		"--result", alice.PlayerID+":9800:8:1:won",
		"--result", bob.PlayerID+":8700:9:3")
	require.NotEmpty(t, game.GameID)

	var stats response.PlayerStats
	runJSON(t, srv.URL, &stats, "player", "stats", alice.PlayerID)
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 9800, stats.HighScore)

	out, err := run(t, srv.URL, "game", "get", game.GameID)
	require.NoError(t, err)
	assert.Contains(t, out, "Game: "+game.GameID)
	assert.Contains(t, out, "2024-03-01 19:00:00 UTC")
	assert.Contains(t, out, alice.PlayerID)

	out, err = run(t, srv.URL, "player", "stats", bob.PlayerID)
	require.NoError(t, err)
	assert.Contains(t, out, "Average score: 8700.0")
}

func TestLeaderboardAndUserPlayers(t *testing.T) {
	srv := newTestAPI(t)

	var seeded SeedResult
	runJSON(t, srv.URL, &seeded, "seed", "--user", "dev")
	require.Len(t, seeded.Players, 2)
	require.NotEmpty(t, seeded.GameID)

	var board response.Leaderboard
	runJSON(t, srv.URL, &board, "leaderboard", "--sort", "total_points", "--limit", "1")
	require.Len(t, board.Rows, 1)
	assert.Equal(t, "Alice", board.Rows[0].DisplayName)
	assert.Equal(t, 9800, board.Rows[0].TotalPoints)

	out, err := run(t, srv.URL, "leaderboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Leaderboard by avg score (top 25)")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob")

	out, err = run(t, srv.URL, "user", "players", "dev")
	require.NoError(t, err)
	assert.Contains(t, out, "User: dev")
	assert.Contains(t, out, "Alice")
}

func TestDeletePlayer(t *testing.T) {
	srv := newTestAPI(t)

	var p response.RegisteredPlayer
	runJSON(t, srv.URL, &p, "player", "register", "--user", "u1", "--name", "Alice")

	out, err := run(t, srv.URL, "player", "delete", p.PlayerID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted player "+p.PlayerID)

	_, err = run(t, srv.URL, "player", "stats", p.PlayerID)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "PLAYER_NOT_FOUND", apiErr.Code)
}

func TestServerErrorsSurface(t *testing.T) {
	srv := newTestAPI(t)

	_, err := run(t, srv.URL, "leaderboard", "--sort", "farkles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_SORT")

	_, err = run(t, srv.URL, "game", "submit", "--user", "nobody", "--result", "p1:1:1:0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USER_NOT_FOUND")
}

func TestInvalidFlags(t *testing.T) {
	srv := newTestAPI(t)

	_, err := run(t, srv.URL, "-o", "yaml", "health")
	assert.Error(t, err)

	_, err = run(t, srv.URL, "game", "submit", "--user", "u1")
	assert.Error(t, err)

	_, err = run(t, srv.URL, "game", "submit", "--user", "u1", "--result", "bad")
	assert.Error(t, err)
}
