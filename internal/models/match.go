// internal/models/match.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchResult is the record emitted when every player of a room has finished all rounds.
// It travels through the Redis queue and ends up as one row in match_results.
type MatchResult struct {
	ID         uuid.UUID     `json:"id"`
	RoomCode   string        `json:"room_code"`
	Rounds     int           `json:"rounds"`
	Players    []MatchPlayer `json:"players"`
	Words      []string      `json:"words"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// MatchPlayer is one participant's final tally.
type MatchPlayer struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Rounds int    `json:"rounds"`
}

// Winner returns the highest-scoring player; ties go to the earlier seat (the host first).
func (m MatchResult) Winner() (MatchPlayer, bool) {
	if len(m.Players) == 0 {
		return MatchPlayer{}, false
	}
	best := m.Players[0]
	for _, p := range m.Players[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, true
}
