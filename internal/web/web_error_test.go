package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/farklestats/internal/testutil"
	"github.com/mcoot/farklestats/internal/web"
)

func TestPanicRendersErrorPage(t *testing.T) {
	// A nil stats service panics inside the handler
	broken := mux.NewRouter()
	web.Register(broken, web.RouterConfig{Logger: testutil.NopLogger()})

	rr := httptest.NewRecorder()
	broken.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	doc := parseHTML(rr.Body)
	assert.Equal(t, "Internal Server Error", doc.Find("h1").Text())
}

func TestUnknownPathIsNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPostNotAllowed(t *testing.T) {
	ts := newWebTestServer(t)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/leaderboard", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
