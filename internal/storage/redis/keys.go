package redis

import (
	"fmt"

	"github.com/christophe-asselin/7-differences/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "septdiff"

// Key generation functions for each entity type

// simpleGameKey returns the Redis key for a SimpleGame
func simpleGameKey(id model.GameID) string {
	return fmt.Sprintf("%s:simple_game:%s", keyPrefix, id)
}

// freeGameKey returns the Redis key for a FreeGame
func freeGameKey(id model.GameID) string {
	return fmt.Sprintf("%s:free_game:%s", keyPrefix, id)
}

// simpleGamesIndexKey returns the Redis key for the SET of simple game keys
func simpleGamesIndexKey() string {
	return fmt.Sprintf("%s:idx:simple_games", keyPrefix)
}

// freeGamesIndexKey returns the Redis key for the SET of free game keys
func freeGamesIndexKey() string {
	return fmt.Sprintf("%s:idx:free_games", keyPrefix)
}

// userKey returns the Redis key for a connected User
func userKey(username string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, username)
}
