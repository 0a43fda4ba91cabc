// Package catalog manages the persisted game records: creation with seeded
// leaderboards, listing for the lobby, waiting-state updates, and removal.
package catalog

import (
	"context"

	"github.com/christophe-asselin/7-differences/internal/dependencies/random"
	"github.com/christophe-asselin/7-differences/internal/model"
	"github.com/christophe-asselin/7-differences/internal/services/score"
	"github.com/christophe-asselin/7-differences/internal/storage"
)

const (
	// GameIDLength is the length of generated game ids
	GameIDLength = 8
	// GameIDAlphabet is the characters used in game ids (avoid confusing chars)
	GameIDAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
)

// Service manages the game catalog
type Service struct {
	storage storage.Storage
	scores  *score.Service
	random  random.Random
}

// New creates a catalog service
func New(storage storage.Storage, scores *score.Service, random random.Random) *Service {
	return &Service{
		storage: storage,
		scores:  scores,
		random:  random,
	}
}

// CreateSimpleGame stores a new 2D game with its precomputed difference
// regions and a seeded leaderboard.
func (s *Service) CreateSimpleGame(ctx context.Context, name, originalURL, modifiedURL string, regions model.DifferenceRegions) (*model.SimpleGame, error) {
	game := &model.SimpleGame{
		ID:                model.GameID(s.random.String(GameIDLength, GameIDAlphabet)),
		Name:              name,
		OriginalImageURL:  originalURL,
		ModifiedImageURL:  modifiedURL,
		DifferenceRegions: regions,
		ScoreSolo:         s.scores.Defaults(),
		ScoreDuo:          s.scores.Defaults(),
		State:             model.GameStateNotWaiting,
	}

	if err := s.storage.SaveSimpleGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// CreateFreeGame stores a new 3D game with its object lists and a seeded
// leaderboard.
func (s *Service) CreateFreeGame(ctx context.Context, name, originalURL string, originalObjects, modifiedObjects []model.Object3D) (*model.FreeGame, error) {
	game := &model.FreeGame{
		ID:               model.GameID(s.random.String(GameIDLength, GameIDAlphabet)),
		Name:             name,
		OriginalImageURL: originalURL,
		OriginalObjects:  originalObjects,
		ModifiedObjects:  modifiedObjects,
		ScoreSolo:        s.scores.Defaults(),
		ScoreDuo:         s.scores.Defaults(),
		State:            model.GameStateNotWaiting,
	}

	if err := s.storage.SaveFreeGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// GetSimpleGame retrieves a 2D game by id
func (s *Service) GetSimpleGame(ctx context.Context, id model.GameID) (*model.SimpleGame, error) {
	return s.storage.GetSimpleGame(ctx, id)
}

// GetFreeGame retrieves a 3D game by id
func (s *Service) GetFreeGame(ctx context.Context, id model.GameID) (*model.FreeGame, error) {
	return s.storage.GetFreeGame(ctx, id)
}

// ListSimpleGames lists every 2D game
func (s *Service) ListSimpleGames(ctx context.Context) ([]*model.SimpleGame, error) {
	return s.storage.ListSimpleGames(ctx)
}

// ListFreeGames lists every 3D game
func (s *Service) ListFreeGames(ctx context.Context) ([]*model.FreeGame, error) {
	return s.storage.ListFreeGames(ctx)
}

// Remove deletes a game of either type
func (s *Service) Remove(ctx context.Context, id model.GameID, gameType model.GameType) error {
	if gameType == model.GameTypeFree {
		return s.storage.DeleteFreeGame(ctx, id)
	}
	return s.storage.DeleteSimpleGame(ctx, id)
}

// SetState updates a game's waiting state
func (s *Service) SetState(ctx context.Context, id model.GameID, gameType model.GameType, state model.GameState) error {
	if gameType == model.GameTypeFree {
		game, err := s.storage.GetFreeGame(ctx, id)
		if err != nil {
			return err
		}
		game.State = state
		return s.storage.SaveFreeGame(ctx, game)
	}

	game, err := s.storage.GetSimpleGame(ctx, id)
	if err != nil {
		return err
	}
	game.State = state
	return s.storage.SaveSimpleGame(ctx, game)
}

// UpdateScore offers a finished time to the game's leaderboard for the given
// mode. It returns the 1-based leaderboard position, or -1 when the time did
// not make the board.
func (s *Service) UpdateScore(ctx context.Context, id model.GameID, gameType model.GameType, mode model.GameMode, entry model.Score) (int, error) {
	if gameType == model.GameTypeFree {
		game, err := s.storage.GetFreeGame(ctx, id)
		if err != nil {
			return -1, err
		}
		var position int
		if mode == model.GameModeDuo {
			game.ScoreDuo, position = s.scores.Update(game.ScoreDuo, entry)
		} else {
			game.ScoreSolo, position = s.scores.Update(game.ScoreSolo, entry)
		}
		return position, s.storage.SaveFreeGame(ctx, game)
	}

	game, err := s.storage.GetSimpleGame(ctx, id)
	if err != nil {
		return -1, err
	}
	var position int
	if mode == model.GameModeDuo {
		game.ScoreDuo, position = s.scores.Update(game.ScoreDuo, entry)
	} else {
		game.ScoreSolo, position = s.scores.Update(game.ScoreSolo, entry)
	}
	return position, s.storage.SaveSimpleGame(ctx, game)
}

// ResetScores replaces both leaderboards of a game with fresh placeholders
func (s *Service) ResetScores(ctx context.Context, id model.GameID, gameType model.GameType) error {
	if gameType == model.GameTypeFree {
		game, err := s.storage.GetFreeGame(ctx, id)
		if err != nil {
			return err
		}
		game.ScoreSolo = s.scores.Defaults()
		game.ScoreDuo = s.scores.Defaults()
		return s.storage.SaveFreeGame(ctx, game)
	}

	game, err := s.storage.GetSimpleGame(ctx, id)
	if err != nil {
		return err
	}
	game.ScoreSolo = s.scores.Defaults()
	game.ScoreDuo = s.scores.Defaults()
	return s.storage.SaveSimpleGame(ctx, game)
}
