// Package ongoing tracks which games currently have a match in progress, so
// the lobby can flag them without querying live session state.
package ongoing

import (
	"sort"
	"sync"

	"github.com/christophe-asselin/7-differences/internal/model"
)

// Key identifies a game of either type
type Key struct {
	GameID model.GameID   `json:"gameId"`
	Type   model.GameType `json:"gameType"`
}

// Service is a reference-counted cache of in-progress games. Several matches
// can run on the same game; the game stays flagged until the last one ends.
type Service struct {
	mu    sync.RWMutex
	games map[Key]int
}

// New creates an empty ongoing-games cache
func New() *Service {
	return &Service{games: make(map[Key]int)}
}

// Add flags a game as having one more match in progress
func (s *Service) Add(gameID model.GameID, gameType model.GameType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[Key{GameID: gameID, Type: gameType}]++
}

// Remove unflags one match of the game. Removing a game with no recorded
// match is a no-op.
func (s *Service) Remove(gameID model.GameID, gameType model.GameType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key{GameID: gameID, Type: gameType}
	if s.games[key] <= 1 {
		delete(s.games, key)
		return
	}
	s.games[key]--
}

// IsOnGoing reports whether the game has at least one match in progress
func (s *Service) IsOnGoing(gameID model.GameID, gameType model.GameType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games[Key{GameID: gameID, Type: gameType}] > 0
}

// List returns every in-progress game, ordered by id then type
func (s *Service) List() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]Key, 0, len(s.games))
	for key := range s.games {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].GameID != keys[j].GameID {
			return keys[i].GameID < keys[j].GameID
		}
		return keys[i].Type < keys[j].Type
	})
	return keys
}
