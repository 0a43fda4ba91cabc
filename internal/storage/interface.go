package storage

import (
	"context"

	"github.com/christophe-asselin/7-differences/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Simple (2D) game operations
	SaveSimpleGame(ctx context.Context, game *model.SimpleGame) error
	GetSimpleGame(ctx context.Context, id model.GameID) (*model.SimpleGame, error)
	ListSimpleGames(ctx context.Context) ([]*model.SimpleGame, error)
	DeleteSimpleGame(ctx context.Context, id model.GameID) error

	// Free (3D) game operations
	SaveFreeGame(ctx context.Context, game *model.FreeGame) error
	GetFreeGame(ctx context.Context, id model.GameID) (*model.FreeGame, error)
	ListFreeGames(ctx context.Context) ([]*model.FreeGame, error)
	DeleteFreeGame(ctx context.Context, id model.GameID) error

	// User registry operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, username string) (*model.User, error)
	DeleteUser(ctx context.Context, username string) error
	UserExists(ctx context.Context, username string) (bool, error)
}
