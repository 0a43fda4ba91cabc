package model

import "fmt"

const (
	// DuoWinThreshold is the number of differences a duo player must find to
	// win. Duo games end sooner than solo ones since both players race each
	// other instead of clearing the whole board.
	DuoWinThreshold = 4
	// SoloWinThreshold is the number of differences a solo player must find
	SoloWinThreshold = 7
)

// User identifies a connected player. Usernames are chosen at connect time
// and checked against the persisted registry; the socket id is the
// transport-session handle used for individual notifications.
type User struct {
	Username string `json:"username"`
	SocketID string `json:"userId"`
}

// DuoPlayer is one participant of a duo session with their running tally
type DuoPlayer struct {
	User             User `json:"user"`
	DifferencesFound int  `json:"nDiffFound"`
}

// DuoSession is one live two-player match. A session holds one player while
// waiting for an opponent and at most two once the match is underway; player
// order is insertion order. Sessions are owned and mutated exclusively by
// the duo game service.
type DuoSession struct {
	ID      int         `json:"idDuo"`
	GameID  GameID      `json:"idGame"`
	Type    GameType    `json:"type"`
	Players []DuoPlayer `json:"duoPlayers"`

	// 2D mode: the shared healed image and per-pixel identification grid,
	// kept in sync for both players after every found difference.
	ModifiedImageURL      string   `json:"modifiedImageURL,omitempty"`
	IdentifiedDifferences [][]bool `json:"identifiedDifferences,omitempty"`

	// 3D mode: index of the most recently revealed object, so the
	// opponent's client can animate the same reveal.
	Object3DIndex int `json:"object3DIndex,omitempty"`
}

// Player returns the session player with the given username, or nil.
func (s *DuoSession) Player(username string) *DuoPlayer {
	for i := range s.Players {
		if s.Players[i].User.Username == username {
			return &s.Players[i]
		}
	}
	return nil
}

// HasPlayer reports whether the named player is in the session.
func (s *DuoSession) HasPlayer(username string) bool {
	return s.Player(username) != nil
}

// Room returns the broadcast room name for this session.
func (s *DuoSession) Room() string {
	return RoomName(s.GameID, s.ID)
}

// RoomName builds the room identifier for a game/session pair.
func RoomName(gameID GameID, duoID int) string {
	return fmt.Sprintf("%s/%d", gameID, duoID)
}
