package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/farklestats/internal/model"
)

func TestWriteErrorMapsModelErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"user", model.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},
		{"player", model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound},
		{"named player", &model.PlayerNotFoundError{PlayerID: "p9"}, http.StatusNotFound, CodePlayerNotFound},
		{"game", fmt.Errorf("load: %w", model.ErrGameNotFound), http.StatusNotFound, CodeGameNotFound},
		{"result", model.ErrInvalidResult, http.StatusBadRequest, CodeInvalidResult},
		{"duplicate", model.ErrDuplicatePlayer, http.StatusBadRequest, CodeDuplicatePlayer},
		{"sort", model.ErrInvalidSortKey, http.StatusBadRequest, CodeInvalidSort},
		{"limit", model.ErrInvalidLimit, http.StatusBadRequest, CodeInvalidLimit},
		{"request", NewInvalidRequestError("bad"), http.StatusBadRequest, CodeInvalidRequest},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}

func TestPlayerNotFoundMessageNamesPlayer(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("create game: %w", &model.PlayerNotFoundError{PlayerID: "ghost"}))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Player ghost not found", resp.Error.Message)
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("connection refused 10.0.0.1"))

	assert.NotContains(t, rr.Body.String(), "10.0.0.1")
}
