// Package score maintains the per-game best-time leaderboards.
package score

import (
	"fmt"
	"sort"

	"github.com/christophe-asselin/7-differences/internal/dependencies/random"
	"github.com/christophe-asselin/7-differences/internal/model"
)

const (
	// BoardSize is the number of best times kept per game and mode
	BoardSize = 3

	defaultMinMinutes = 3
	defaultMaxMinutes = 10
)

// defaultNames seed the leaderboard of a freshly created game so a first
// real score always has placeholders to beat.
var defaultNames = []string{"Ordinateur", "Machine", "Robot", "Automate"}

// Service generates and ranks leaderboard scores
type Service struct {
	random random.Random
}

// New creates a score service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// Defaults generates the placeholder leaderboard for a new game: three
// random times in ascending order attributed to machine players.
func (s *Service) Defaults() []model.Score {
	scores := make([]model.Score, BoardSize)
	for i := range scores {
		minutes := defaultMinMinutes + s.random.Intn(defaultMaxMinutes-defaultMinMinutes)
		seconds := s.random.Intn(60)
		scores[i] = model.Score{
			Time: fmt.Sprintf("%02d:%02d", minutes, seconds),
			Name: defaultNames[s.random.Intn(len(defaultNames))],
		}
	}
	return s.Sort(scores)
}

// Sort orders scores by ascending time and keeps the top entries. Malformed
// times sort last.
func (s *Service) Sort(scores []model.Score) []model.Score {
	sorted := make([]model.Score, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return timeSeconds(sorted[i].Time) < timeSeconds(sorted[j].Time)
	})
	if len(sorted) > BoardSize {
		sorted = sorted[:BoardSize]
	}
	return sorted
}

// Update inserts a candidate score into the leaderboard. It returns the new
// leaderboard and the candidate's 1-based position, or -1 when the candidate
// did not make the board.
func (s *Service) Update(scores []model.Score, candidate model.Score) ([]model.Score, int) {
	updated := s.Sort(append(append([]model.Score{}, scores...), candidate))
	for i, entry := range updated {
		if entry == candidate {
			return updated, i + 1
		}
	}
	return updated, -1
}

// timeSeconds parses a "mm:ss" time to total seconds. Anything malformed
// ranks below every well-formed time.
func timeSeconds(t string) int {
	var minutes, seconds int
	if _, err := fmt.Sscanf(t, "%d:%d", &minutes, &seconds); err != nil {
		return 1 << 30
	}
	return minutes*60 + seconds
}
