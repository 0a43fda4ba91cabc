package duogame

import (
	"sync"

	"github.com/christophe-asselin/7-differences/internal/model"
)

// SessionStore holds the live duo sessions keyed by session id. Session ids
// are allocated monotonically from zero for the process lifetime; ids are
// never reused, so a stale id from a finished match can only miss.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int]*model.DuoSession
	nextID   int
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int]*model.DuoSession),
	}
}

// Create assigns the session the next id and adds it to the live set.
func (s *SessionStore) Create(session *model.DuoSession) *model.DuoSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.ID = s.nextID
	s.nextID++
	s.sessions[session.ID] = session
	return session
}

// Get retrieves a live session by id
func (s *SessionStore) Get(id int) (*model.DuoSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session from the live set. Deleting an unknown id is a
// no-op.
func (s *SessionStore) Delete(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// FindWaiting returns the session for the game that is still waiting for an
// opponent (exactly one player).
func (s *SessionStore) FindWaiting(gameID model.GameID, gameType model.GameType) (*model.DuoSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions {
		if session.GameID == gameID && session.Type == gameType && len(session.Players) == 1 {
			return session, nil
		}
	}
	return nil, model.ErrNoWaitingSession
}

// FindByPlayer returns the session for the game that contains the named
// player.
func (s *SessionStore) FindByPlayer(gameID model.GameID, gameType model.GameType, username string) (*model.DuoSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions {
		if session.GameID == gameID && session.Type == gameType && session.HasPlayer(username) {
			return session, nil
		}
	}
	return nil, model.ErrSessionNotFound
}

// FindByUsername returns the session containing the named player, regardless
// of game. Used when a socket disconnects without a clean leave.
func (s *SessionStore) FindByUsername(username string) (*model.DuoSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions {
		if session.HasPlayer(username) {
			return session, nil
		}
	}
	return nil, model.ErrSessionNotFound
}

// FindByGame returns every live session for the game
func (s *SessionStore) FindByGame(gameID model.GameID) []*model.DuoSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []*model.DuoSession
	for _, session := range s.sessions {
		if session.GameID == gameID {
			sessions = append(sessions, session)
		}
	}
	return sessions
}
