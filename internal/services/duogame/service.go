// Package duogame implements the two-player session state machine: sessions
// are created by one player, joined by a second, advanced by found
// differences, and destroyed when a player wins or everyone leaves.
package duogame

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/christophe-asselin/7-differences/internal/model"
)

// stateMirrorTimeout bounds the background catalog state update so a slow
// store cannot pile up goroutines.
const stateMirrorTimeout = 2 * time.Second

// GameStateMirror receives best-effort updates of a game's waiting state.
// The live session set is the source of truth; mirror failures are logged
// and never surfaced to the session mutation path.
type GameStateMirror interface {
	SetState(ctx context.Context, gameID model.GameID, gameType model.GameType, state model.GameState) error
}

// Service manages duo session state machine and player operations
type Service struct {
	// mu serializes every find-then-mutate sequence. Session lookups and the
	// mutation they lead to must not interleave with another event for the
	// same game, or two joiners could both land on the same waiting session.
	mu     sync.Mutex
	store  *SessionStore
	mirror GameStateMirror
	logger *slog.Logger
}

// New creates a duo game service over an injected session store
func New(store *SessionStore, mirror GameStateMirror, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		mirror: mirror,
		logger: logger,
	}
}

// Create opens a new one-player session for the game and marks the game
// waiting so it shows as joinable in lobby listings. The session is returned
// synchronously whether or not the state mirror succeeds.
func (s *Service) Create(gameID model.GameID, gameType model.GameType, user model.User, modifiedImageURL string) *model.DuoSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.store.Create(&model.DuoSession{
		GameID:           gameID,
		Type:             gameType,
		Players:          []model.DuoPlayer{{User: user}},
		ModifiedImageURL: modifiedImageURL,
	})

	s.mirrorState(gameID, gameType, model.GameStateWaiting)
	return session
}

// Join adds the user to the game's waiting session and marks the game no
// longer joinable.
func (s *Service) Join(gameID model.GameID, gameType model.GameType, user model.User) (*model.DuoSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.store.FindWaiting(gameID, gameType)
	if err != nil {
		return nil, err
	}
	if len(session.Players) >= 2 {
		return nil, model.ErrSessionFull
	}

	session.Players = append(session.Players, model.DuoPlayer{User: user})

	s.mirrorState(gameID, gameType, model.GameStateNotWaiting)
	return session, nil
}

// DeletePlayer removes the named player from whichever session of the game
// contains them. A session left with no players is destroyed; closed reports
// whether that happened.
func (s *Service) DeletePlayer(gameID model.GameID, gameType model.GameType, username string) (session *model.DuoSession, closed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err = s.store.FindByPlayer(gameID, gameType, username)
	if err != nil {
		return nil, false, err
	}

	for i := range session.Players {
		if session.Players[i].User.Username == username {
			session.Players = append(session.Players[:i], session.Players[i+1:]...)
			break
		}
	}

	if len(session.Players) == 0 {
		s.store.Delete(session.ID)
		s.mirrorState(gameID, gameType, model.GameStateNotWaiting)
		return session, true, nil
	}
	return session, false, nil
}

// SimpleDifferenceFound credits the player with a found 2D difference and
// stores the healed image and identification grid shared by both players.
func (s *Service) SimpleDifferenceFound(duoID int, username string, newModifiedImageURL string, identified [][]bool) (*model.DuoSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.store.Get(duoID)
	if err != nil {
		return nil, err
	}

	player := session.Player(username)
	if player == nil {
		return nil, model.ErrNotInSession
	}

	player.DifferencesFound++
	session.ModifiedImageURL = newModifiedImageURL
	session.IdentifiedDifferences = identified
	return session, nil
}

// FreeDifferenceFound credits the player with a found 3D difference and
// records the revealed object index for the opponent's client.
func (s *Service) FreeDifferenceFound(duoID int, username string, objectIndex int) (*model.DuoSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.store.Get(duoID)
	if err != nil {
		return nil, err
	}

	player := session.Player(username)
	if player == nil {
		return nil, model.ErrNotInSession
	}

	player.DifferencesFound++
	session.Object3DIndex = objectIndex
	return session, nil
}

// CheckEnd reports whether a player has reached the duo win threshold. On a
// win it destroys the session, resets the game's waiting state, and returns
// the players winner first; otherwise it returns nil. A stale session id
// returns nil as well, so the check is safe to repeat after a win.
func (s *Service) CheckEnd(duoID int) []model.DuoPlayer {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.store.Get(duoID)
	if err != nil {
		return nil
	}

	for i, player := range session.Players {
		if player.DifferencesFound >= model.DuoWinThreshold {
			result := []model.DuoPlayer{player}
			for j, other := range session.Players {
				if j != i {
					result = append(result, other)
				}
			}
			s.store.Delete(session.ID)
			s.mirrorState(session.GameID, session.Type, model.GameStateNotWaiting)
			return result
		}
	}
	return nil
}

// Get retrieves a live session by id
func (s *Service) Get(duoID int) (*model.DuoSession, error) {
	return s.store.Get(duoID)
}

// FindByUsername returns the live session containing the named player
func (s *Service) FindByUsername(username string) (*model.DuoSession, error) {
	return s.store.FindByUsername(username)
}

// FindRooms enumerates the room names of every live session for the game,
// used to fan out game-removal notifications.
func (s *Service) FindRooms(gameID model.GameID) []string {
	sessions := s.store.FindByGame(gameID)
	rooms := make([]string, 0, len(sessions))
	for _, session := range sessions {
		rooms = append(rooms, session.Room())
	}
	return rooms
}

// mirrorState pushes the game's waiting state to the catalog in the
// background. Failures are logged and swallowed.
func (s *Service) mirrorState(gameID model.GameID, gameType model.GameType, state model.GameState) {
	if s.mirror == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), stateMirrorTimeout)
		defer cancel()
		if err := s.mirror.SetState(ctx, gameID, gameType, state); err != nil {
			s.logger.Warn("failed to mirror game state",
				slog.String("game_id", string(gameID)),
				slog.String("state", string(state)),
				slog.String("error", err.Error()),
			)
		}
	}()
}
