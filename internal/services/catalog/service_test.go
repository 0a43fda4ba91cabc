package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/christophe-asselin/7-differences/internal/dependencies/mocks"
	"github.com/christophe-asselin/7-differences/internal/model"
	"github.com/christophe-asselin/7-differences/internal/services/score"
	"github.com/christophe-asselin/7-differences/internal/storage/memory"
)

type CatalogSuite struct {
	suite.Suite
	svc    *Service
	random *mocks.MockRandom
	ctx    context.Context
}

func (s *CatalogSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.svc = New(memory.New(), score.New(s.random), s.random)
	s.ctx = context.Background()
}

func (s *CatalogSuite) createSimple(name string) *model.SimpleGame {
	s.random.QueueString(name + "-id")
	game, err := s.svc.CreateSimpleGame(s.ctx, name, "orig.bmp", "mod.bmp", model.DifferenceRegions{})
	s.Require().NoError(err)
	return game
}

func (s *CatalogSuite) TestCreateSimpleGame() {
	game := s.createSimple("forest")

	s.Equal(model.GameID("forest-id"), game.ID)
	s.Equal(model.GameStateNotWaiting, game.State)
	s.Len(game.ScoreSolo, score.BoardSize)
	s.Len(game.ScoreDuo, score.BoardSize)

	got, err := s.svc.GetSimpleGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("forest", got.Name)
}

func (s *CatalogSuite) TestCreateFreeGame() {
	s.random.QueueString("free-id")
	game, err := s.svc.CreateFreeGame(s.ctx, "geometry", "scene.json",
		[]model.Object3D{{Index: 0, Type: "cube"}},
		[]model.Object3D{{Index: 0, Type: "cube"}, {Index: 1, Type: "sphere"}},
	)
	s.Require().NoError(err)

	got, err := s.svc.GetFreeGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.True(got.HasObjectIndex(1))
	s.Len(got.ScoreSolo, score.BoardSize)
}

func (s *CatalogSuite) TestListGames() {
	s.createSimple("a")
	s.createSimple("b")

	games, err := s.svc.ListSimpleGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 2)

	free, err := s.svc.ListFreeGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(free)
}

func (s *CatalogSuite) TestRemove() {
	game := s.createSimple("forest")

	s.Require().NoError(s.svc.Remove(s.ctx, game.ID, model.GameTypeSimple))

	_, err := s.svc.GetSimpleGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *CatalogSuite) TestSetState() {
	game := s.createSimple("forest")

	s.Require().NoError(s.svc.SetState(s.ctx, game.ID, model.GameTypeSimple, model.GameStateWaiting))

	got, err := s.svc.GetSimpleGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateWaiting, got.State)
}

func (s *CatalogSuite) TestSetStateUnknownGame() {
	err := s.svc.SetState(s.ctx, "missing", model.GameTypeSimple, model.GameStateWaiting)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *CatalogSuite) TestUpdateScore() {
	game := s.createSimple("forest")

	// Exhausted mock random seeds every default slot with "03:00", so a
	// faster time always ranks first.
	position, err := s.svc.UpdateScore(s.ctx, game.ID, model.GameTypeSimple, model.GameModeSolo, model.Score{
		Time: "01:30",
		Name: "alice",
	})
	s.Require().NoError(err)
	s.Equal(1, position)

	got, err := s.svc.GetSimpleGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("alice", got.ScoreSolo[0].Name)
	s.Len(got.ScoreSolo, score.BoardSize)

	// A slower time does not make the board
	position, err = s.svc.UpdateScore(s.ctx, game.ID, model.GameTypeSimple, model.GameModeSolo, model.Score{
		Time: "59:59",
		Name: "bob",
	})
	s.Require().NoError(err)
	s.Equal(-1, position)
}

func (s *CatalogSuite) TestUpdateScoreDuoBoard() {
	game := s.createSimple("forest")

	_, err := s.svc.UpdateScore(s.ctx, game.ID, model.GameTypeSimple, model.GameModeDuo, model.Score{
		Time: "00:45",
		Name: "duo-pair",
	})
	s.Require().NoError(err)

	got, err := s.svc.GetSimpleGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("duo-pair", got.ScoreDuo[0].Name)
	s.NotEqual("duo-pair", got.ScoreSolo[0].Name)
}

func (s *CatalogSuite) TestResetScores() {
	game := s.createSimple("forest")
	_, err := s.svc.UpdateScore(s.ctx, game.ID, model.GameTypeSimple, model.GameModeSolo, model.Score{
		Time: "00:01",
		Name: "alice",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.svc.ResetScores(s.ctx, game.ID, model.GameTypeSimple))

	got, err := s.svc.GetSimpleGame(s.ctx, game.ID)
	s.Require().NoError(err)
	for _, entry := range got.ScoreSolo {
		s.NotEqual("alice", entry.Name)
	}
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}
