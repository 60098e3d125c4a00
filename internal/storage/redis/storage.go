package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// watch runs fn as an optimistic transaction over keys, retrying when a
// watched key is modified before EXEC
func (s *Storage) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < s.cfg.MaxTxRetries; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("redis transaction: %w", redis.TxFailedErr)
}

// User operations

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := getJSON(ctx, s.client, userKey(id), &user); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, user *model.User, player *model.PlayerProfile) (bool, error) {
	userData, err := json.Marshal(user)
	if err != nil {
		return false, err
	}
	playerData, err := json.Marshal(player)
	if err != nil {
		return false, err
	}

	var created bool
	err = s.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, userKey(user.ID)).Result()
		if err != nil {
			return err
		}
		created = exists == 0

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if created {
				pipe.Set(ctx, userKey(user.ID), userData, 0)
			}
			pipe.Set(ctx, playerKey(player.ID), playerData, 0)
			pipe.ZAdd(ctx, userPlayersIndexKey(player.UserID), redis.Z{
				Score:  float64(player.CreatedAt.UnixMicro()),
				Member: string(player.ID),
			})
			return nil
		})
		return err
	}, userKey(user.ID))
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerProfile, error) {
	return getPlayer(ctx, s.client, id)
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.watch(ctx, func(tx *redis.Tx) error {
		player, err := getPlayer(ctx, tx, id)
		if err != nil {
			return err
		}

		resultIDs, err := tx.SMembers(ctx, playerResultsIndexKey(id)).Result()
		if err != nil {
			return err
		}
		results, err := loadResults(ctx, tx, resultIDs)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, r := range results {
				r.PlayerID = nil
				data, err := json.Marshal(r)
				if err != nil {
					return err
				}
				pipe.Set(ctx, resultKey(r.ID), data, 0)
			}
			pipe.Del(ctx, playerKey(id), playerResultsIndexKey(id))
			pipe.ZRem(ctx, userPlayersIndexKey(player.UserID), string(id))
			pipe.SRem(ctx, rankedPlayersIndexKey(), string(id))
			return nil
		})
		return err
	}, playerKey(id), playerResultsIndexKey(id))
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	if err := game.CheckDistinctPlayers(); err != nil {
		return err
	}

	header := *game
	header.Results = nil
	gameData, err := json.Marshal(header)
	if err != nil {
		return err
	}

	resultData := make([][]byte, len(game.Results))
	for i, r := range game.Results {
		if resultData[i], err = json.Marshal(r); err != nil {
			return err
		}
	}

	playerIDs := game.PlayerIDs()
	keys := []string{userKey(game.UserID)}
	for _, pid := range playerIDs {
		keys = append(keys, playerKey(pid))
	}

	return s.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, userKey(game.UserID)).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return model.ErrUserNotFound
		}
		for _, pid := range playerIDs {
			exists, err := tx.Exists(ctx, playerKey(pid)).Result()
			if err != nil {
				return err
			}
			if exists == 0 {
				return &model.PlayerNotFoundError{PlayerID: pid}
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey(game.ID), gameData, 0)
			for i, r := range game.Results {
				pipe.Set(ctx, resultKey(r.ID), resultData[i], 0)
				pipe.RPush(ctx, gameResultsIndexKey(game.ID), string(r.ID))
				if r.PlayerID != nil {
					pipe.SAdd(ctx, playerResultsIndexKey(*r.PlayerID), string(r.ID))
					pipe.SAdd(ctx, rankedPlayersIndexKey(), string(*r.PlayerID))
				}
			}
			return nil
		})
		return err
	}, keys...)
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := getJSON(ctx, s.client, gameKey(id), &game); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	resultIDs, err := s.client.LRange(ctx, gameResultsIndexKey(id), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if game.Results, err = loadResults(ctx, s.client, resultIDs); err != nil {
		return nil, err
	}
	return &game, nil
}

// Aggregate queries

func (s *Storage) PlayerTotals(ctx context.Context, id model.PlayerID) (*model.PlayerTotals, error) {
	player, err := getPlayer(ctx, s.client, id)
	if err != nil {
		return nil, err
	}
	totals, err := s.totalsFor(ctx, player)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (s *Storage) LeaderboardTotals(ctx context.Context) ([]model.PlayerTotals, error) {
	ids, err := s.client.SMembers(ctx, rankedPlayersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	return s.totalsForIDs(ctx, ids, true)
}

func (s *Storage) UserPlayerTotals(ctx context.Context, userID model.UserID) ([]model.PlayerTotals, error) {
	exists, err := s.client.Exists(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrUserNotFound
	}

	ids, err := s.client.ZRange(ctx, userPlayersIndexKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return s.totalsForIDs(ctx, ids, false)
}

// totalsForIDs aggregates the given players, skipping any deleted concurrently.
// When rankedOnly is set, players without results are left out.
func (s *Storage) totalsForIDs(ctx context.Context, ids []string, rankedOnly bool) ([]model.PlayerTotals, error) {
	out := make([]model.PlayerTotals, 0, len(ids))
	for _, id := range ids {
		player, err := getPlayer(ctx, s.client, model.PlayerID(id))
		if errors.Is(err, model.ErrPlayerNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		totals, err := s.totalsFor(ctx, player)
		if err != nil {
			return nil, err
		}
		if rankedOnly && totals.GamesPlayed == 0 {
			continue
		}
		out = append(out, totals)
	}
	return out, nil
}

func (s *Storage) totalsFor(ctx context.Context, player *model.PlayerProfile) (model.PlayerTotals, error) {
	totals := model.PlayerTotals{
		PlayerID:    player.ID,
		DisplayName: player.DisplayName,
	}

	resultIDs, err := s.client.SMembers(ctx, playerResultsIndexKey(player.ID)).Result()
	if err != nil {
		return totals, err
	}
	results, err := loadResults(ctx, s.client, resultIDs)
	if err != nil {
		return totals, err
	}
	for _, r := range results {
		totals.Record(r)
	}
	return totals, nil
}

// Helpers shared by plain and transactional reads

// reader is the subset of commands available on both *redis.Client and *redis.Tx
type reader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

func getJSON(ctx context.Context, c reader, key string, dest any) error {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func getPlayer(ctx context.Context, c reader, id model.PlayerID) (*model.PlayerProfile, error) {
	var player model.PlayerProfile
	if err := getJSON(ctx, c, playerKey(id), &player); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

// loadResults fetches results by id, preserving order and skipping missing keys
func loadResults(ctx context.Context, c reader, ids []string) ([]model.GameResult, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = resultKey(model.ResultID(id))
	}

	values, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	results := make([]model.GameResult, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var r model.GameResult
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
