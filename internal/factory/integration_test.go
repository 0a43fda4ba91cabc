package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/christophe-asselin/7-differences/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) createUser(username, socketID string) model.User {
	_, err := s.app.UserService.Add(s.ctx, username)
	s.Require().NoError(err)
	u, err := s.app.UserService.BindSocket(s.ctx, username, socketID)
	s.Require().NoError(err)
	return *u
}

func (s *IntegrationSuite) createSimpleGame(name string) *model.SimpleGame {
	s.app.MockRandom.QueueString(name + "-id")
	regions := model.DifferenceRegions{
		Labels: [][]int{{0, 1}, {0, 2}},
		Regions: [][]model.Coordinate{
			{},
			{{X: 0, Y: 1}},
			{{X: 1, Y: 1}},
		},
	}
	game, err := s.app.CatalogService.CreateSimpleGame(s.ctx, name, "data:orig", "data:mod", regions)
	s.Require().NoError(err)
	return game
}

// requireState waits for the background state mirror to land on storage.
func (s *IntegrationSuite) requireState(id model.GameID, state model.GameState) {
	s.Require().Eventually(func() bool {
		game, err := s.app.CatalogService.GetSimpleGame(s.ctx, id)
		return err == nil && game.State == state
	}, time.Second, 5*time.Millisecond)
}

// Test: complete duo match from user registration to leaderboard update
func (s *IntegrationSuite) TestCompleteDuoMatch() {
	// Step 1: Two users connect and claim usernames
	alice := s.createUser("alice", "socket-a")
	bob := s.createUser("bob", "socket-b")

	// Step 2: A game exists in the catalog
	game := s.createSimpleGame("Forest")

	// Step 3: Alice opens a duo session; the game shows as waiting
	session := s.app.DuoGameService.Create(game.ID, model.GameTypeSimple, alice, game.ModifiedImageURL)
	s.Equal(0, session.ID)
	s.requireState(game.ID, model.GameStateWaiting)

	// Step 4: Bob joins the same session; the game is no longer joinable
	joined, err := s.app.DuoGameService.Join(game.ID, model.GameTypeSimple, bob)
	s.Require().NoError(err)
	s.Equal(session.ID, joined.ID)
	s.Len(joined.Players, 2)
	s.requireState(game.ID, model.GameStateNotWaiting)

	// Step 5: Alice finds differences until the winning threshold
	grid := [][]bool{{false, true}, {false, false}}
	for i := 0; i < model.DuoWinThreshold; i++ {
		updated, err := s.app.DuoGameService.SimpleDifferenceFound(session.ID, alice.Username, "data:healed", grid)
		s.Require().NoError(err)
		s.Equal(i+1, updated.Player(alice.Username).DifferencesFound)
	}

	// Step 6: The match ends with Alice first, Bob second
	result := s.app.DuoGameService.CheckEnd(session.ID)
	s.Require().Len(result, 2)
	s.Equal("alice", result[0].User.Username)
	s.Equal("bob", result[1].User.Username)

	// The session is destroyed and the game is joinable again
	_, err = s.app.DuoGameService.Get(session.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.requireState(game.ID, model.GameStateNotWaiting)

	// Step 7: Alice posts her time to the duo leaderboard
	position, err := s.app.CatalogService.UpdateScore(
		s.ctx, game.ID, model.GameTypeSimple, model.GameModeDuo, model.Score{Time: "01:30", Name: "alice"})
	s.Require().NoError(err)
	s.Equal(1, position)

	updated, err := s.app.CatalogService.GetSimpleGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("alice", updated.ScoreDuo[0].Name)
}

// Test: abandoning a waiting session reopens the game
func (s *IntegrationSuite) TestAbandonWaitingSession() {
	alice := s.createUser("alice", "socket-a")
	game := s.createSimpleGame("Desert")

	session := s.app.DuoGameService.Create(game.ID, model.GameTypeSimple, alice, game.ModifiedImageURL)
	s.requireState(game.ID, model.GameStateWaiting)

	_, closed, err := s.app.DuoGameService.DeletePlayer(game.ID, model.GameTypeSimple, alice.Username)
	s.Require().NoError(err)
	s.True(closed)
	s.requireState(game.ID, model.GameStateNotWaiting)

	_, err = s.app.DuoGameService.Get(session.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Test: a disconnected user is removed after the grace period
func (s *IntegrationSuite) TestDisconnectedUserRemoved() {
	alice := s.createUser("alice", "socket-a")

	s.app.UserService.ScheduleRemoval(alice.Username, alice.SocketID)
	s.app.MockClock.Advance(10 * time.Second)

	s.Require().Eventually(func() bool {
		_, err := s.app.UserService.Get(s.ctx, alice.Username)
		return err != nil
	}, time.Second, 5*time.Millisecond)
}
