package redis

import (
	"fmt"

	"github.com/mcoot/farklestats/internal/model"
)

// Key prefix for all stats data
const keyPrefix = "farkle"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// playerKey returns the Redis key for a PlayerProfile
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// gameKey returns the Redis key for a Game (without its results)
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// resultKey returns the Redis key for a GameResult
func resultKey(id model.ResultID) string {
	return fmt.Sprintf("%s:result:%s", keyPrefix, id)
}

// userPlayersIndexKey returns the Redis key for the ZSET of a user's players,
// scored by creation time
func userPlayersIndexKey(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:user_players:%s", keyPrefix, userID)
}

// playerResultsIndexKey returns the Redis key for the SET of a player's result ids
func playerResultsIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_results:%s", keyPrefix, playerID)
}

// gameResultsIndexKey returns the Redis key for the LIST of a game's result ids,
// in submission order
func gameResultsIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:game_results:%s", keyPrefix, gameID)
}

// rankedPlayersIndexKey returns the Redis key for the SET of players with at least one result
func rankedPlayersIndexKey() string {
	return fmt.Sprintf("%s:idx:ranked_players", keyPrefix)
}
