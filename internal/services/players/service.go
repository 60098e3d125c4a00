package players

import (
	"context"
	"log/slog"

	"github.com/mcoot/farklestats/internal/dependencies/clock"
	"github.com/mcoot/farklestats/internal/dependencies/idgen"
	"github.com/mcoot/farklestats/internal/metrics"
	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/storage"
)

// Service registers and removes player profiles
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	metrics *metrics.Metrics
	events  model.EventPublisher
	logger  *slog.Logger
}

// New creates a new players Service
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

// Registration is the outcome of registering a player
type Registration struct {
	Player      model.PlayerProfile
	UserCreated bool
}

// Register creates a new player profile for userID. An anonymous user is
// created first if no user with that id exists yet.
func (s *Service) Register(ctx context.Context, userID model.UserID, displayName string) (*Registration, error) {
	now := s.clock.Now()

	user := &model.User{
		ID:        userID,
		LoginType: model.LoginTypeAnonymous,
		CreatedAt: now,
	}
	player := &model.PlayerProfile{
		ID:          model.PlayerID(s.ids.NewID()),
		UserID:      userID,
		DisplayName: displayName,
		CreatedAt:   now,
	}

	userCreated, err := s.storage.CreatePlayer(ctx, user, player)
	if err != nil {
		s.logger.Error("failed to register player",
			slog.String("user_id", string(userID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.metrics.PlayerRegistered(userCreated)
	s.publish(model.Event{
		Type:      model.EventPlayerRegistered,
		Timestamp: now,
		UserID:    userID,
		PlayerID:  player.ID,
	})
	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("user_id", string(userID)),
		slog.Bool("user_created", userCreated),
	)

	return &Registration{Player: *player, UserCreated: userCreated}, nil
}

// Get retrieves a player profile by ID
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.PlayerProfile, error) {
	return s.storage.GetPlayer(ctx, id)
}

// Delete removes a player profile. Their historical results are kept with
// the player reference cleared.
func (s *Service) Delete(ctx context.Context, id model.PlayerID) error {
	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		return err
	}

	s.metrics.PlayerDeleted()
	s.publish(model.Event{
		Type:      model.EventPlayerDeleted,
		Timestamp: s.clock.Now(),
		PlayerID:  id,
	})
	s.logger.Info("player deleted", slog.String("player_id", string(id)))
	return nil
}

func (s *Service) publish(event model.Event) {
	if s.events != nil {
		s.events.Publish(event)
	}
}
