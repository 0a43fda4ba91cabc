package model

// GameID uniquely identifies a catalog game
type GameID string

// GameType distinguishes the two game variants
type GameType string

const (
	// GameTypeSimple is the 2D pixel-difference variant
	GameTypeSimple GameType = "simple"
	// GameTypeFree is the 3D scene-difference variant
	GameTypeFree GameType = "free"
)

// GameState tracks whether a game has a duo session waiting for an opponent
type GameState string

const (
	GameStateWaiting    GameState = "waiting"    // A duo session exists with one player
	GameStateNotWaiting GameState = "notWaiting" // No joinable duo session
)

// Score is one best-time entry on a game's leaderboard
type Score struct {
	Time string `json:"time"` // "mm:ss"
	Name string `json:"name"`
}

// SimpleGame is a 2D game catalog record. The difference regions are
// computed once at creation time and reused for every click identification.
type SimpleGame struct {
	ID                GameID            `json:"id"`
	Name              string            `json:"name"`
	OriginalImageURL  string            `json:"originalImageURL"`
	ModifiedImageURL  string            `json:"modifiedImageURL"`
	DifferenceRegions DifferenceRegions `json:"differenceRegions"`
	ScoreSolo         []Score           `json:"scoreSolo"`
	ScoreDuo          []Score           `json:"scoreDuo"`
	State             GameState         `json:"state"`
}

// Object3D describes one object of a 3D scene
type Object3D struct {
	Color       string    `json:"color"`
	Position    []float64 `json:"position"`
	Rotation    []float64 `json:"rotation"`
	Scale       []float64 `json:"scale"`
	Type        string    `json:"type"`
	Transparent bool      `json:"transparent"`
	Index       int       `json:"index"`
}

// FreeGame is a 3D game catalog record. An object index counts as a
// findable difference when it appears in the modified object list.
type FreeGame struct {
	ID               GameID    `json:"id"`
	Name             string    `json:"name"`
	OriginalImageURL string    `json:"originalImageURL"`
	OriginalObjects  []Object3D `json:"originalObjects"`
	ModifiedObjects  []Object3D `json:"modifiedObjects"`
	ScoreSolo        []Score   `json:"scoreSolo"`
	ScoreDuo         []Score   `json:"scoreDuo"`
	State            GameState `json:"state"`
}

// HasObjectIndex reports whether the modified scene contains the object index.
func (g *FreeGame) HasObjectIndex(index int) bool {
	for _, obj := range g.ModifiedObjects {
		if obj.Index == index {
			return true
		}
	}
	return false
}
