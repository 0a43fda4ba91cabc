package model

import "encoding/json"

// SocketEvent names a websocket protocol event
type SocketEvent string

const (
	// Inbound (client -> server)
	EventNewUser               SocketEvent = "newUser"
	EventNewMessage            SocketEvent = "newMessage"
	EventCreateDuoGame         SocketEvent = "createDuoGame"
	EventJoinDuoGame           SocketEvent = "joinDuoGame"
	EventLeaveDuoGame          SocketEvent = "leaveDuoGame"
	EventSimpleDifferenceFound SocketEvent = "simpleDifferenceFound"
	EventFreeDifferenceFound   SocketEvent = "freeDifferenceFound"
	EventNewScore              SocketEvent = "newScore"
	EventRemoveGame            SocketEvent = "removeGame"
	EventNewOnGoingGame        SocketEvent = "newOnGoingGame"
	EventRemoveOnGoingGame     SocketEvent = "removeOnGoingGame"

	// Outbound (server -> client)
	EventNewDuoPlayer          SocketEvent = "newDuoPlayer"
	EventQuitDuoGame           SocketEvent = "quitDuoGame"
	EventEndDuoGame            SocketEvent = "endDuoGame"
	EventUpdateSimpleGameState SocketEvent = "updateSimpleGameState"
	EventUpdateFreeGameState   SocketEvent = "updateFreeGameState"
)

// Envelope is the wire format for socket events: a name plus an
// event-specific JSON payload.
type Envelope struct {
	Event   SocketEvent     `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewUserRequest is the payload for newUser
type NewUserRequest struct {
	Username string `json:"username"`
}

// DuoGameRequest is the payload for createDuoGame, joinDuoGame and
// leaveDuoGame events.
type DuoGameRequest struct {
	GameID GameID   `json:"idGame"`
	Type   GameType `json:"type"`
	User   User     `json:"user"`
}

// SimpleDifferenceFoundRequest is the payload for simpleDifferenceFound.
// The healed image URL and identification grid travel with the event so
// both players share one modified image.
type SimpleDifferenceFoundRequest struct {
	DuoID                 int      `json:"idDuo"`
	Username              string   `json:"username"`
	NewModifiedImageURL   string   `json:"newModifiedImageURL"`
	IdentifiedDifferences [][]bool `json:"identifiedDifferences"`
}

// FreeDifferenceFoundRequest is the payload for freeDifferenceFound
type FreeDifferenceFoundRequest struct {
	DuoID         int    `json:"idDuo"`
	Username      string `json:"username"`
	Object3DIndex int    `json:"index"`
}

// ChatMessageRequest is the payload for newMessage
type ChatMessageRequest struct {
	Message GameMessage `json:"message"`
	GameID  GameID      `json:"idGame"`
	DuoID   int         `json:"idDuo"`
}

// NewScoreRequest is the payload for newScore
type NewScoreRequest struct {
	GameID   GameID   `json:"idGame"`
	Type     GameType `json:"type"`
	Players  GameMode `json:"nPlayers"`
	Time     string   `json:"time"`
	Username string   `json:"username"`
}

// RemoveGameRequest is the payload for removeGame and removeOnGoingGame
type RemoveGameRequest struct {
	GameID GameID   `json:"idGame"`
	Type   GameType `json:"type"`
}
