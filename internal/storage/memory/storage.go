package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/christophe-asselin/7-differences/internal/model"
	"github.com/christophe-asselin/7-differences/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	simpleGames map[model.GameID]*model.SimpleGame
	freeGames   map[model.GameID]*model.FreeGame
	users       map[string]*model.User
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		simpleGames: make(map[model.GameID]*model.SimpleGame),
		freeGames:   make(map[model.GameID]*model.FreeGame),
		users:       make(map[string]*model.User),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Simple game operations

func (s *Storage) SaveSimpleGame(ctx context.Context, game *model.SimpleGame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simpleGames[game.ID] = game
	return nil
}

func (s *Storage) GetSimpleGame(ctx context.Context, id model.GameID) (*model.SimpleGame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.simpleGames[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Storage) ListSimpleGames(ctx context.Context) ([]*model.SimpleGame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.SimpleGame, 0, len(s.simpleGames))
	for _, game := range s.simpleGames {
		games = append(games, game)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

func (s *Storage) DeleteSimpleGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.simpleGames, id)
	return nil
}

// Free game operations

func (s *Storage) SaveFreeGame(ctx context.Context, game *model.FreeGame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.freeGames[game.ID] = game
	return nil
}

func (s *Storage) GetFreeGame(ctx context.Context, id model.GameID) (*model.FreeGame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.freeGames[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Storage) ListFreeGames(ctx context.Context) ([]*model.FreeGame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.FreeGame, 0, len(s.freeGames))
	for _, game := range s.freeGames {
		games = append(games, game)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

func (s *Storage) DeleteFreeGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.freeGames, id)
	return nil
}

// User registry operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Username] = user
	return nil
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) DeleteUser(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, username)
	return nil
}

func (s *Storage) UserExists(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[username]
	return ok, nil
}
