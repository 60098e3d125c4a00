package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/farklestats/internal/api"
	"github.com/mcoot/farklestats/internal/api/apierr"
	"github.com/mcoot/farklestats/internal/api/response"
	"github.com/mcoot/farklestats/internal/factory"
	"github.com/mcoot/farklestats/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		PlayersService: app.PlayersService,
		GamesService:   app.GamesService,
		StatsService:   app.StatsService,
		Metrics:        app.Metrics,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) register(t *testing.T, userID, name string) response.RegisteredPlayer {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{
		"user_id":      userID,
		"display_name": name,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.RegisteredPlayer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (ts *testServer) submit(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()
	return ts.request(http.MethodPost, "/api/v1/games", body)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRegisterPlayer(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockIDs.QueueID("player-1")

	resp := ts.register(t, "device-1", "Alice")

	assert.Equal(t, "player-1", resp.PlayerID)
	assert.Equal(t, "device-1", resp.UserID)
	assert.Equal(t, "Alice", resp.DisplayName)
	assert.True(t, resp.UserCreated)

	second := ts.register(t, "device-1", "Bob")
	assert.False(t, second.UserCreated)
}

func TestRegisterPlayerValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", "{"},
		{"missing user", map[string]string{"display_name": "Alice"}},
		{"blank name", map[string]string{"user_id": "u1", "display_name": "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/players", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
		})
	}
}

func TestSubmitGameAndReadStats(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "device-1", "Alice")
	bob := ts.register(t, "device-1", "Bob")

	rr := ts.submit(t, map[string]any{
		"user_id": "device-1",
		"results": []map[string]any{
			{"player_id": alice.PlayerID, "score": 9800, "turns": 8, "farkles": 1, "won": true},
			{"player_id": bob.PlayerID, "score": 8700, "turns": 9, "farkles": 3, "won": false},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var submitted response.SubmittedGame
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &submitted))
	require.NotEmpty(t, submitted.GameID)

	rr = ts.request(http.MethodGet, "/api/v1/players/"+alice.PlayerID+"/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var stats response.PlayerStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, "Alice", stats.DisplayName)
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 9800, stats.TotalPoints)
	assert.Equal(t, 9800.0, stats.AvgScore)
	assert.Equal(t, 1, stats.TotalFarkles)
	assert.Equal(t, 9800, stats.HighScore)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+submitted.GameID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var game response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	assert.Equal(t, "device-1", game.UserID)
	require.Len(t, game.Results, 2)
	require.NotNil(t, game.Results[1].PlayerID)
	assert.Equal(t, bob.PlayerID, *game.Results[1].PlayerID)
	assert.Equal(t, 9, game.Results[1].Turns)
}

func TestSubmitGameWithPlayedAt(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "device-1", "Alice")

	rr := ts.submit(t, `{"user_id":"device-1","played_at":"2023-06-01T20:30:00+10:00",`+
		`"results":[{"player_id":"`+alice.PlayerID+`","score":500}]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var submitted response.SubmittedGame
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &submitted))

	rr = ts.request(http.MethodGet, "/api/v1/games/"+submitted.GameID, nil)
	assert.Contains(t, rr.Body.String(), `"played_at":"2023-06-01T10:30:00Z"`)
}

func TestSubmitGameUnknownUser(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "device-1", "Alice")

	rr := ts.submit(t, map[string]any{
		"user_id": "nobody",
		"results": []map[string]any{{"player_id": alice.PlayerID, "score": 1}},
	})

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeUserNotFound, decodeError(t, rr).Code)
}

func TestSubmitGameUnknownPlayerNamesIt(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "device-1", "Alice")

	rr := ts.submit(t, map[string]any{
		"user_id": "device-1",
		"results": []map[string]any{
			{"player_id": alice.PlayerID, "score": 100},
			{"player_id": "ghost", "score": 200},
		},
	})

	require.Equal(t, http.StatusNotFound, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodePlayerNotFound, apiErr.Code)
	assert.Contains(t, apiErr.Message, "ghost")

	rr = ts.request(http.MethodGet, "/api/v1/players/"+alice.PlayerID+"/stats", nil)
	var stats response.PlayerStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.GamesPlayed)
}

func TestSubmitGameValidation(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "device-1", "Alice")

	tests := []struct {
		name string
		body any
		code string
	}{
		{"malformed json", "not json", apierr.CodeInvalidRequest},
		{"missing user", map[string]any{"results": []map[string]any{{"player_id": alice.PlayerID}}}, apierr.CodeInvalidRequest},
		{"no results", map[string]any{"user_id": "device-1", "results": []any{}}, apierr.CodeInvalidResult},
		{"negative score", map[string]any{
			"user_id": "device-1",
			"results": []map[string]any{{"player_id": alice.PlayerID, "score": -1}},
		}, apierr.CodeInvalidResult},
		{"duplicate player", map[string]any{
			"user_id": "device-1",
			"results": []map[string]any{{"player_id": alice.PlayerID}, {"player_id": alice.PlayerID}},
		}, apierr.CodeDuplicatePlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.submit(t, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.code, decodeError(t, rr).Code)
		})
	}
}

func TestGetUnknownGame(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeGameNotFound, decodeError(t, rr).Code)
}

func TestPlayerStatsUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players/ghost/stats", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, decodeError(t, rr).Code)
}

func TestLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "device-1", "Alice")
	bob := ts.register(t, "device-1", "Bob")
	ts.register(t, "device-1", "Idle")

	rr := ts.submit(t, map[string]any{
		"user_id": "device-1",
		"results": []map[string]any{
			{"player_id": alice.PlayerID, "score": 9800, "won": true},
			{"player_id": bob.PlayerID, "score": 8700},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var board response.Leaderboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	assert.Equal(t, "avg_score", board.Sort)
	assert.Equal(t, 25, board.Limit)
	require.Len(t, board.Rows, 2)
	assert.Equal(t, alice.PlayerID, board.Rows[0].PlayerID)
	assert.Equal(t, 1, board.Rows[0].Wins)
	assert.Equal(t, bob.PlayerID, board.Rows[1].PlayerID)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?sort=total_points&limit=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	require.Len(t, board.Rows, 1)
	assert.Equal(t, alice.PlayerID, board.Rows[0].PlayerID)
	assert.Equal(t, 9800, board.Rows[0].TotalPoints)
}

func TestLeaderboardValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		query string
		code  string
	}{
		{"sort=farkles", apierr.CodeInvalidSort},
		{"limit=0", apierr.CodeInvalidLimit},
		{"limit=101", apierr.CodeInvalidLimit},
		{"limit=ten", apierr.CodeInvalidLimit},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := ts.request(http.MethodGet, "/api/v1/leaderboard?"+tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.code, decodeError(t, rr).Code)
		})
	}
}

func TestUserPlayers(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "device-1", "Alice")
	idle := ts.register(t, "device-1", "Idle")

	rr := ts.submit(t, map[string]any{
		"user_id": "device-1",
		"results": []map[string]any{{"player_id": alice.PlayerID, "score": 300, "won": true}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/users/device-1/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.UserPlayers
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Players, 2)
	assert.Equal(t, alice.PlayerID, resp.Players[0].PlayerID)
	assert.Equal(t, 1, resp.Players[0].GamesPlayed)
	assert.Equal(t, idle.PlayerID, resp.Players[1].PlayerID)
	assert.Equal(t, 0, resp.Players[1].GamesPlayed)
	assert.Equal(t, 0.0, resp.Players[1].AvgScore)
}

func TestUserPlayersUnknownUser(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/users/nobody/players", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeUserNotFound, decodeError(t, rr).Code)
}

func TestDeletePlayerKeepsGameHistory(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "device-1", "Alice")
	bob := ts.register(t, "device-1", "Bob")

	rr := ts.submit(t, map[string]any{
		"user_id": "device-1",
		"results": []map[string]any{
			{"player_id": alice.PlayerID, "score": 100},
			{"player_id": bob.PlayerID, "score": 200},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var submitted response.SubmittedGame
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &submitted))

	rr = ts.request(http.MethodDelete, "/api/v1/players/"+bob.PlayerID, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/players/"+bob.PlayerID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+submitted.GameID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var game response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	require.Len(t, game.Results, 2)
	assert.NotNil(t, game.Results[0].PlayerID)
	assert.Nil(t, game.Results[1].PlayerID)
	assert.Equal(t, 200, game.Results[1].Score)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "device-1", "Alice")

	rr := ts.request(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "farkle_players_registered_total 1")
	assert.Contains(t, rr.Body.String(), `route="/api/v1/players"`)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
