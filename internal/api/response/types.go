package response

import (
	"github.com/christophe-asselin/7-differences/internal/model"
)

// GameLists is the lobby listing of both game variants
type GameLists struct {
	SimpleGames []*model.SimpleGame `json:"simpleGames"`
	FreeGames   []*model.FreeGame   `json:"freeGames"`
}

// GameCreated is the response after a game passes validation and is stored
type GameCreated struct {
	ID   model.GameID `json:"id"`
	Name string       `json:"name"`
}
