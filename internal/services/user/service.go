// Package user manages the connected-user registry: usernames are claimed at
// connect time, bound to a socket, and released shortly after disconnect.
package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/christophe-asselin/7-differences/internal/dependencies/clock"
	"github.com/christophe-asselin/7-differences/internal/model"
	"github.com/christophe-asselin/7-differences/internal/storage"
)

const (
	// DisconnectGrace is how long a username survives its socket. A quick
	// reconnect within the grace period keeps the name; binding a new socket
	// voids the scheduled removal.
	DisconnectGrace = 5 * time.Second

	removalTimeout = 2 * time.Second
)

// Service manages the connected-user registry
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a user service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Add claims a username. The name must not already be in use.
func (s *Service) Add(ctx context.Context, username string) (*model.User, error) {
	exists, err := s.storage.UserExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrUsernameTaken
	}

	user := &model.User{Username: username}
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BindSocket attaches a socket id to a claimed username
func (s *Service) BindSocket(ctx context.Context, username, socketID string) (*model.User, error) {
	user, err := s.storage.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	user.SocketID = socketID
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get retrieves a connected user by username
func (s *Service) Get(ctx context.Context, username string) (*model.User, error) {
	return s.storage.GetUser(ctx, username)
}

// Remove releases a username immediately
func (s *Service) Remove(ctx context.Context, username string) error {
	return s.storage.DeleteUser(ctx, username)
}

// ScheduleRemoval releases the username after the disconnect grace period,
// unless the user has rebound to a different socket in the meantime. Called
// when a socket disconnects without a clean goodbye.
func (s *Service) ScheduleRemoval(username, socketID string) {
	go func() {
		<-s.clock.After(DisconnectGrace)

		ctx, cancel := context.WithTimeout(context.Background(), removalTimeout)
		defer cancel()

		user, err := s.storage.GetUser(ctx, username)
		if err != nil {
			return
		}
		if user.SocketID != socketID {
			// Reconnected on a new socket
			return
		}

		if err := s.storage.DeleteUser(ctx, username); err != nil {
			s.logger.Warn("failed to remove disconnected user",
				slog.String("username", username),
				slog.String("error", err.Error()),
			)
		}
	}()
}
