package model

// Title labels a protocol message for the client UI
type Title string

const (
	TitleSuccess    Title = "success"
	TitleFail       Title = "fail"
	TitleWaiting    Title = "waiting"
	TitleNotWaiting Title = "notWaiting"
	TitleWinner     Title = "winner"
	TitleLoser      Title = "loser"
)

// GameEvent classifies lobby chat messages
type GameEvent string

const (
	GameEventConnect         GameEvent = "connect"
	GameEventDisconnect      GameEvent = "disconnect"
	GameEventDifferenceFound GameEvent = "difference_found"
	GameEventIdentifyError   GameEvent = "error"
	GameEventBestScore       GameEvent = "best_score"
)

// GameMode distinguishes solo from duo play for scoreboards and chat
type GameMode string

const (
	GameModeSolo GameMode = "solo"
	GameModeDuo  GameMode = "duo"
)

// Message is the generic title/body envelope broadcast to clients
type Message struct {
	Title Title  `json:"title"`
	Body  string `json:"body"`
}

// GameMessage is a lobby chat notification (connects, disconnects, found
// differences, best scores)
type GameMessage struct {
	Username string    `json:"username,omitempty"`
	Event    GameEvent `json:"event,omitempty"`
	GameName string    `json:"gameName,omitempty"`
	Players  GameMode  `json:"nPlayers,omitempty"`
	Position string    `json:"position,omitempty"`
}

// DifferenceIdentification is the response to a 2D click identification
type DifferenceIdentification struct {
	Title                Title        `json:"title"`
	DifferenceIdentified bool         `json:"differenceIdentified"`
	NewModifiedImageURL  string       `json:"newModifiedImageURL,omitempty"`
	Coordinates          []Coordinate `json:"coordinates,omitempty"`
}

// ImageValidation is the response to a 2D image pair validation
type ImageValidation struct {
	Title             Title          `json:"title"`
	Body              string         `json:"body"`
	DifferenceRegions [][]Coordinate `json:"differenceRegions,omitempty"`
}
