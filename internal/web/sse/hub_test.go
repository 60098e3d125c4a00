package sse

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{"single line data", "game-recorded", `{"game_id":"g1"}`, "event: game-recorded\ndata: {\"game_id\":\"g1\"}\n\n"},
		{"multi-line data", "note", "a\nb", "event: note\ndata: a\ndata: b\n\n"},
		{"empty data", "ping", "", "event: ping\ndata: \n\n"},
		{"carriage returns", "test", "line1\r\nline2", "event: test\ndata: line1\ndata: line2\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"hello", []string{"hello"}},
		{"line1\nline2", []string{"line1", "line2"}},
		{"line1\n", []string{"line1"}},
		{"", []string{""}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"line1\r\nline2\r\n", []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, splitLines(tt.input), "input %q", tt.input)
	}
}

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func receive(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		require.True(t, ok, "client channel closed")
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := newRunningHub(t)

	clients := []*Client{NewClient("r1"), NewClient("r2"), NewClient("r3")}
	for _, c := range clients {
		require.True(t, hub.Register(c))
	}
	assert.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	hub.BroadcastEvent("update", "data")

	for _, c := range clients {
		assert.Equal(t, "event: update\ndata: data\n\n", receive(t, c))
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := newRunningHub(t)

	client := NewClient("r1")
	require.True(t, hub.Register(client))
	hub.Unregister(client)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-client.send
	assert.False(t, ok, "send channel should be closed")

	// Unregistering twice is harmless
	hub.Unregister(client)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run()
		close(stopped)
	}()

	client := NewClient("r1")
	require.True(t, hub.Register(client))

	hub.Close()
	hub.Close()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	_, ok := <-client.send
	assert.False(t, ok)
	assert.False(t, hub.Register(NewClient("late")))
}

func TestBroadcaster_Publish(t *testing.T) {
	hub := newRunningHub(t)
	client := NewClient("r1")
	require.True(t, hub.Register(client))

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	NewBroadcaster(hub, testutil.NopLogger()).Publish(model.Event{
		Type:      model.EventGameRecorded,
		Timestamp: at,
		UserID:    "u1",
		GameID:    "g1",
	})

	msg := receive(t, client)
	require.True(t, strings.HasPrefix(msg, "event: game-recorded\ndata: "), msg)

	body := strings.TrimSuffix(strings.TrimPrefix(msg, "event: game-recorded\ndata: "), "\n\n")
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &data))
	assert.Equal(t, "u1", data["user_id"])
	assert.Equal(t, "g1", data["game_id"])
	assert.NotContains(t, data, "player_id")
	assert.Equal(t, "2024-05-01T12:00:00Z", data["timestamp"])
}

func TestServeSSE(t *testing.T) {
	hub := newRunningHub(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, hub)
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		var lines []string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if line == "\n" {
				return strings.Join(lines, "")
			}
			lines = append(lines, line)
		}
	}

	assert.Equal(t, "event: connected\ndata: {\"status\":\"connected\"}\n", readEvent())

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.BroadcastEvent("player-deleted", "p1")
	assert.Equal(t, "event: player-deleted\ndata: p1\n", readEvent())

	hub.Close()
	_, err = reader.ReadString('\n')
	assert.Error(t, err, "stream should end when the hub closes")
}
