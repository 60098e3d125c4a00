package games

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/farklestats/internal/dependencies/clock"
	"github.com/mcoot/farklestats/internal/dependencies/idgen"
	"github.com/mcoot/farklestats/internal/metrics"
	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/storage"
)

// Service records completed games
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	metrics *metrics.Metrics
	events  model.EventPublisher
	logger  *slog.Logger
}

// New creates a new games Service
func New(
	storage storage.Storage,
	clock clock.Clock,
	ids idgen.Generator,
	metrics *metrics.Metrics,
	events model.EventPublisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		ids:     ids,
		metrics: metrics,
		events:  events,
		logger:  logger,
	}
}

// SubmitParams describes a completed game
type SubmitParams struct {
	UserID model.UserID
	// PlayedAt defaults to the current time when nil
	PlayedAt *time.Time
	Entries  []model.ResultEntry
}

// Submit records a game and one result per entry. The user and every player
// must exist; otherwise nothing is recorded.
func (s *Service) Submit(ctx context.Context, params SubmitParams) (*model.Game, error) {
	if err := model.ValidateEntries(params.Entries); err != nil {
		return nil, err
	}

	playedAt := s.clock.Now()
	if params.PlayedAt != nil {
		playedAt = params.PlayedAt.UTC().Truncate(time.Microsecond)
	}

	game := &model.Game{
		ID:       model.GameID(s.ids.NewID()),
		UserID:   params.UserID,
		PlayedAt: playedAt,
		Results:  make([]model.GameResult, 0, len(params.Entries)),
	}
	for _, e := range params.Entries {
		pid := e.PlayerID
		game.Results = append(game.Results, model.GameResult{
			ID:         model.ResultID(s.ids.NewID()),
			GameID:     game.ID,
			PlayerID:   &pid,
			Score:      e.Score,
			TurnsTaken: e.TurnsTaken,
			Farkles:    e.Farkles,
			Won:        e.Won,
		})
	}

	if err := s.storage.CreateGame(ctx, game); err != nil {
		if errors.Is(err, model.ErrUserNotFound) || errors.Is(err, model.ErrPlayerNotFound) {
			s.logger.Warn("game rejected",
				slog.String("user_id", string(params.UserID)),
				slog.String("reason", err.Error()),
			)
		} else {
			s.logger.Error("failed to record game",
				slog.String("game_id", string(game.ID)),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.metrics.GameRecorded(len(game.Results))
	s.publish(model.Event{
		Type:      model.EventGameRecorded,
		Timestamp: s.clock.Now(),
		UserID:    game.UserID,
		GameID:    game.ID,
	})
	s.logger.Info("game recorded",
		slog.String("game_id", string(game.ID)),
		slog.String("user_id", string(game.UserID)),
		slog.Int("result_count", len(game.Results)),
	)

	return game, nil
}

// Get retrieves a game with its results
func (s *Service) Get(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.storage.GetGame(ctx, id)
}

func (s *Service) publish(event model.Event) {
	if s.events != nil {
		s.events.Publish(event)
	}
}
