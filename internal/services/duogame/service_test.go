package duogame

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/christophe-asselin/7-differences/internal/model"
	"github.com/christophe-asselin/7-differences/internal/testutil"
)

type recordedState struct {
	gameID model.GameID
	state  model.GameState
}

// recordingMirror captures state updates pushed from the background mirror
// goroutine.
type recordingMirror struct {
	mu      sync.Mutex
	updates []recordedState
}

func (m *recordingMirror) SetState(_ context.Context, gameID model.GameID, _ model.GameType, state model.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, recordedState{gameID: gameID, state: state})
	return nil
}

func (m *recordingMirror) last() (recordedState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.updates) == 0 {
		return recordedState{}, false
	}
	return m.updates[len(m.updates)-1], true
}

type DuoGameSuite struct {
	suite.Suite
	svc    *Service
	mirror *recordingMirror

	userA model.User
	userB model.User
}

func (s *DuoGameSuite) SetupTest() {
	s.mirror = &recordingMirror{}
	s.svc = New(NewSessionStore(), s.mirror, testutil.NopLogger())
	s.userA = model.User{Username: "alice", SocketID: "sock-a"}
	s.userB = model.User{Username: "bob", SocketID: "sock-b"}
}

func (s *DuoGameSuite) requireMirrored(gameID model.GameID, state model.GameState) {
	s.Require().Eventually(func() bool {
		last, ok := s.mirror.last()
		return ok && last.gameID == gameID && last.state == state
	}, time.Second, 5*time.Millisecond)
}

func (s *DuoGameSuite) TestCreateStartsWaitingSession() {
	session := s.svc.Create("1", model.GameTypeSimple, s.userA, "url")

	s.Equal(0, session.ID)
	s.Len(session.Players, 1)
	s.Equal("alice", session.Players[0].User.Username)
	s.Equal("url", session.ModifiedImageURL)
	s.requireMirrored("1", model.GameStateWaiting)
}

func (s *DuoGameSuite) TestSessionIDsAreMonotonic() {
	first := s.svc.Create("1", model.GameTypeSimple, s.userA, "")
	second := s.svc.Create("2", model.GameTypeFree, s.userB, "")

	s.Equal(0, first.ID)
	s.Equal(1, second.ID)
}

func (s *DuoGameSuite) TestJoinFillsWaitingSession() {
	created := s.svc.Create("1", model.GameTypeSimple, s.userA, "")

	joined, err := s.svc.Join("1", model.GameTypeSimple, s.userB)
	s.Require().NoError(err)

	s.Equal(created.ID, joined.ID)
	s.Len(joined.Players, 2)
	s.Equal("alice", joined.Players[0].User.Username)
	s.Equal("bob", joined.Players[1].User.Username)
	s.requireMirrored("1", model.GameStateNotWaiting)
}

func (s *DuoGameSuite) TestJoinWithoutWaitingSession() {
	_, err := s.svc.Join("1", model.GameTypeSimple, s.userB)
	s.ErrorIs(err, model.ErrNoWaitingSession)
}

func (s *DuoGameSuite) TestJoinIgnoresFullSessions() {
	s.svc.Create("1", model.GameTypeSimple, s.userA, "")
	_, err := s.svc.Join("1", model.GameTypeSimple, s.userB)
	s.Require().NoError(err)

	_, err = s.svc.Join("1", model.GameTypeSimple, model.User{Username: "carol"})
	s.ErrorIs(err, model.ErrNoWaitingSession)
}

func (s *DuoGameSuite) TestJoinIgnoresOtherGameTypes() {
	s.svc.Create("1", model.GameTypeSimple, s.userA, "")

	_, err := s.svc.Join("1", model.GameTypeFree, s.userB)
	s.ErrorIs(err, model.ErrNoWaitingSession)
}

func (s *DuoGameSuite) TestDeletePlayerKeepsPartialSession() {
	created := s.svc.Create("1", model.GameTypeSimple, s.userA, "")
	_, err := s.svc.Join("1", model.GameTypeSimple, s.userB)
	s.Require().NoError(err)

	session, closed, err := s.svc.DeletePlayer("1", model.GameTypeSimple, "alice")
	s.Require().NoError(err)
	s.False(closed)
	s.Equal(created.ID, session.ID)
	s.Len(session.Players, 1)
	s.Equal("bob", session.Players[0].User.Username)

	_, err = s.svc.Get(created.ID)
	s.NoError(err)
}

func (s *DuoGameSuite) TestDeleteLastPlayerClosesSession() {
	created := s.svc.Create("1", model.GameTypeSimple, s.userA, "")

	_, closed, err := s.svc.DeletePlayer("1", model.GameTypeSimple, "alice")
	s.Require().NoError(err)
	s.True(closed)

	_, err = s.svc.Get(created.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.requireMirrored("1", model.GameStateNotWaiting)
}

func (s *DuoGameSuite) TestDeleteUnknownPlayer() {
	s.svc.Create("1", model.GameTypeSimple, s.userA, "")

	_, _, err := s.svc.DeletePlayer("1", model.GameTypeSimple, "mallory")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *DuoGameSuite) TestSimpleDifferenceFound() {
	created := s.svc.Create("1", model.GameTypeSimple, s.userA, "before")
	_, err := s.svc.Join("1", model.GameTypeSimple, s.userB)
	s.Require().NoError(err)

	grid := [][]bool{{true, false}}
	session, err := s.svc.SimpleDifferenceFound(created.ID, "bob", "after", grid)
	s.Require().NoError(err)

	s.Equal(0, session.Player("alice").DifferencesFound)
	s.Equal(1, session.Player("bob").DifferencesFound)
	s.Equal("after", session.ModifiedImageURL)
	s.Equal(grid, session.IdentifiedDifferences)
}

func (s *DuoGameSuite) TestFreeDifferenceFound() {
	created := s.svc.Create("1", model.GameTypeFree, s.userA, "")

	session, err := s.svc.FreeDifferenceFound(created.ID, "alice", 6)
	s.Require().NoError(err)

	s.Equal(1, session.Player("alice").DifferencesFound)
	s.Equal(6, session.Object3DIndex)
}

func (s *DuoGameSuite) TestDifferenceFoundErrors() {
	created := s.svc.Create("1", model.GameTypeSimple, s.userA, "")

	_, err := s.svc.SimpleDifferenceFound(99, "alice", "", nil)
	s.ErrorIs(err, model.ErrSessionNotFound)

	_, err = s.svc.SimpleDifferenceFound(created.ID, "mallory", "", nil)
	s.ErrorIs(err, model.ErrNotInSession)

	_, err = s.svc.FreeDifferenceFound(created.ID, "mallory", 2)
	s.ErrorIs(err, model.ErrNotInSession)
}

func (s *DuoGameSuite) TestCheckEndBelowThreshold() {
	created := s.svc.Create("1", model.GameTypeFree, s.userA, "")
	_, err := s.svc.Join("1", model.GameTypeFree, s.userB)
	s.Require().NoError(err)

	for i := 0; i < model.DuoWinThreshold-1; i++ {
		_, err = s.svc.FreeDifferenceFound(created.ID, "alice", i)
		s.Require().NoError(err)
	}

	s.Nil(s.svc.CheckEnd(created.ID))
	_, err = s.svc.Get(created.ID)
	s.NoError(err)
}

func (s *DuoGameSuite) TestWinDestroysSession() {
	created := s.svc.Create("1", model.GameTypeFree, s.userA, "")
	_, err := s.svc.Join("1", model.GameTypeFree, s.userB)
	s.Require().NoError(err)

	_, err = s.svc.FreeDifferenceFound(created.ID, "bob", 0)
	s.Require().NoError(err)
	for i := 0; i < model.DuoWinThreshold; i++ {
		_, err = s.svc.FreeDifferenceFound(created.ID, "alice", i)
		s.Require().NoError(err)
	}

	result := s.svc.CheckEnd(created.ID)
	s.Require().Len(result, 2)
	s.Equal("alice", result[0].User.Username)
	s.Equal("bob", result[1].User.Username)

	_, err = s.svc.Get(created.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.Nil(s.svc.CheckEnd(created.ID))
	s.requireMirrored("1", model.GameStateNotWaiting)
}

// Full lifecycle for game "1": alice opens session 0, bob joins, alice wins
// on her fourth find.
func (s *DuoGameSuite) TestFullMatchScenario() {
	created := s.svc.Create("1", model.GameTypeSimple, s.userA, "")
	s.Equal(0, created.ID)
	s.Len(created.Players, 1)

	joined, err := s.svc.Join("1", model.GameTypeSimple, s.userB)
	s.Require().NoError(err)
	s.Equal(0, joined.ID)
	s.Len(joined.Players, 2)

	for i := 0; i < 4; i++ {
		_, err = s.svc.FreeDifferenceFound(0, "alice", 1)
		s.Require().NoError(err)
		result := s.svc.CheckEnd(0)
		if i < 3 {
			s.Require().Nil(result)
		} else {
			s.Require().Len(result, 2)
			s.Equal("alice", result[0].User.Username)
			s.Equal("bob", result[1].User.Username)
		}
	}
}

func (s *DuoGameSuite) TestFindRooms() {
	first := s.svc.Create("1", model.GameTypeSimple, s.userA, "")
	second := s.svc.Create("1", model.GameTypeFree, s.userB, "")
	s.svc.Create("2", model.GameTypeSimple, model.User{Username: "carol"}, "")

	rooms := s.svc.FindRooms("1")
	s.Len(rooms, 2)
	s.Contains(rooms, first.Room())
	s.Contains(rooms, second.Room())
	s.Empty(s.svc.FindRooms("99"))
}

func (s *DuoGameSuite) TestFindByUsername() {
	created := s.svc.Create("1", model.GameTypeSimple, s.userA, "")

	session, err := s.svc.FindByUsername("alice")
	s.Require().NoError(err)
	s.Equal(created.ID, session.ID)

	_, err = s.svc.FindByUsername("mallory")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func TestDuoGameSuite(t *testing.T) {
	suite.Run(t, new(DuoGameSuite))
}
