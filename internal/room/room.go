// internal/room/room.go
package room

import (
	"strings"
	"time"

	"github.com/jason-s-yu/wordbattle/internal/broadcast"
)

// Capacity bounds for createRoom.
const (
	MinPlayers = 2
	MaxPlayers = 8
)

// Phase is the match state of a room.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseStarting
	PhaseInProgress
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseStarting:
		return "starting"
	case PhaseInProgress:
		return "in_progress"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// Player is a room participant. Round counts the rounds this player has finished.
type Player struct {
	Name  string
	Score int
	Round int
}

// Room is one lobby/match session. Players[0] is always the host.
type Room struct {
	Code     string
	Players  []*Player
	Max      int
	Settings *broadcast.Settings
	Locked   bool
	Words    []string
	Phase    Phase

	CreatedAt  time.Time
	LastActive time.Time
	StartedAt  time.Time

	// matchSeq identifies the current startGame so late word-source replies can be discarded.
	matchSeq int
}

// normalize is applied to every room code and player name a client sends.
func normalize(s string) string {
	return strings.TrimSpace(s)
}

func newRoom(code string, maxPlayers int, now time.Time) *Room {
	return &Room{
		Code:       code,
		Max:        maxPlayers,
		Phase:      PhaseLobby,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Host returns the host's name, or "" for an empty room.
func (r *Room) Host() string {
	if len(r.Players) == 0 {
		return ""
	}
	return r.Players[0].Name
}

func (r *Room) player(name string) *Player {
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *Room) hasPlayer(name string) bool {
	return r.player(name) != nil
}

// removePlayer drops name from the room and reports whether it was present.
func (r *Room) removePlayer(name string) bool {
	for i, p := range r.Players {
		if p.Name == name {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return true
		}
	}
	return false
}

// totalRounds is the configured round count, 1 when unset.
func (r *Room) totalRounds() int {
	if r.Settings == nil || r.Settings.Rounds <= 0 {
		return 1
	}
	return r.Settings.Rounds
}

func (r *Room) allDone() bool {
	total := r.totalRounds()
	for _, p := range r.Players {
		if p.Round < total {
			return false
		}
	}
	return true
}

// matchActive reports whether score/miss reports are accepted. A match still in its
// start delay has not been announced yet and takes no reports.
func (r *Room) matchActive() bool {
	return r.Locked && r.Phase == PhaseInProgress
}

func (r *Room) summary() broadcast.RoomSummary {
	return broadcast.RoomSummary{
		Code:    r.Code,
		Players: len(r.Players),
		Max:     r.Max,
		Locked:  r.Locked,
	}
}

func (r *Room) playerStates() []broadcast.PlayerState {
	out := make([]broadcast.PlayerState, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, broadcast.PlayerState{Name: p.Name, Score: p.Score, Round: p.Round})
	}
	return out
}

func (r *Room) scores() []broadcast.PlayerScore {
	out := make([]broadcast.PlayerScore, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, broadcast.PlayerScore{Name: p.Name, Score: p.Score})
	}
	return out
}

func (r *Room) settingsValue() broadcast.Settings {
	if r.Settings == nil {
		return broadcast.Settings{}
	}
	return *r.Settings
}
