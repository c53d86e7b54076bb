// internal/room/match.go
package room

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/wordbattle/internal/broadcast"
	"github.com/jason-s-yu/wordbattle/internal/models"
	"github.com/jason-s-yu/wordbattle/internal/words"
)

// DefaultWordCount is used when a match starts without a round count.
const DefaultWordCount = 5

// Single-player word request limits.
const (
	DefaultSoloWords = 10
	MaxSoloWords     = 100
)

const recordTimeout = 5 * time.Second

// StartGame locks code, reseats players from names (names[0] becomes host), fetches
// one word per round and, after the start delay, publishes gameStarted.
//
// The word source is called outside the event loop, so other events for the same
// room may be handled while it runs. A newer StartGame or a deleted room discards
// the stale word list. Like UpdateSettings, the sender is not checked against the host.
func (c *Coordinator) StartGame(ctx context.Context, code string, settings broadcast.Settings, names []string) error {
	code = normalize(code)
	if code == "" || settings.Rounds < 0 || settings.Timer < 0 {
		return ErrMalformed
	}
	seats := seatNames(names)
	if len(seats) == 0 {
		return ErrMalformed
	}
	settings.Placement = append([]string(nil), settings.Placement...)

	var (
		seq   int
		opErr error
	)
	err := c.do(ctx, func() {
		r, ok := c.store.Get(code)
		if !ok {
			opErr = ErrRoomNotFound
			return
		}
		r.Settings = &settings
		r.Locked = true
		r.Phase = PhaseStarting
		r.Words = nil
		r.Players = make([]*Player, 0, len(seats))
		for _, name := range seats {
			r.Players = append(r.Players, &Player{Name: name})
		}
		r.StartedAt = c.now()
		r.matchSeq++
		seq = r.matchSeq
		c.touch(r)
		c.roomLog(code).WithField("players", seats).Infof("match starting, %d rounds", settings.Rounds)
	})
	if err != nil {
		return err
	}
	if opErr != nil {
		return opErr
	}

	count := settings.Rounds
	if count <= 0 {
		count = DefaultWordCount
	}
	list, genErr := c.words.Generate(ctx, count, words.MinLength, words.MaxLength)
	if genErr != nil {
		c.roomLog(code).WithError(genErr).Error("word source failed")
		list = nil
	}

	return c.do(ctx, func() {
		r, ok := c.store.Get(code)
		if !ok || r.matchSeq != seq {
			c.roomLog(code).Warn("discarding words for a superseded match")
			return
		}
		r.Words = list
		if len(list) == 0 {
			c.roomLog(code).Error("no words generated for room")
		} else if len(list) < count {
			c.roomLog(code).Warnf("word source returned %d of %d words", len(list), count)
		}

		if c.startDelay <= 0 {
			c.announce(r, seq)
			return
		}
		time.AfterFunc(c.startDelay, func() {
			c.post(func() {
				if cur, ok := c.store.Get(code); ok && cur == r {
					c.announce(r, seq)
				}
			})
		})
	})
}

// announce moves a starting match to in-progress and tells everyone.
func (c *Coordinator) announce(r *Room, seq int) {
	if r.matchSeq != seq || r.Phase != PhaseStarting {
		return
	}
	r.Phase = PhaseInProgress
	c.roomLog(r.Code).WithField("subscribers", c.gw.Subscribers(r.Code)).Infof("emitting gameStarted with %d words", len(r.Words))
	c.publishRooms()
	c.gw.Publish(r.Code, gameStartedEvent(r))
}

// ReportMiss advances name's round without touching the score.
func (c *Coordinator) ReportMiss(ctx context.Context, code, name string) error {
	code, name = normalize(code), normalize(name)
	if code == "" || name == "" {
		return ErrMalformed
	}
	return c.do(ctx, func() {
		r, p := c.activePlayer(code, name)
		if p == nil {
			return
		}
		p.Round++
		c.touch(r)
		c.advance(r)
	})
}

// ReportScore stores name's absolute score as sent by the client, advances the
// player's round and publishes the scoreboard.
func (c *Coordinator) ReportScore(ctx context.Context, code, name string, score int) error {
	code, name = normalize(code), normalize(name)
	if code == "" || name == "" || score < 0 {
		return ErrMalformed
	}
	return c.do(ctx, func() {
		r, p := c.activePlayer(code, name)
		if p == nil {
			return
		}
		p.Score = score
		p.Round++
		c.touch(r)
		c.gw.Publish(code, broadcast.Event{
			Type: broadcast.EventScoreUpdate,
			Data: broadcast.ScoreUpdatePayload{Code: code, Players: r.scores()},
		})
		c.advance(r)
	})
}

func (c *Coordinator) activePlayer(code, name string) (*Room, *Player) {
	r, ok := c.store.Get(code)
	if !ok || !r.matchActive() {
		return nil, nil
	}
	p := r.player(name)
	if p == nil {
		c.roomLog(code).WithField("user", name).Debug("report from unknown player ignored")
		return nil, nil
	}
	return r, p
}

// advance ends the match when every player is done, otherwise signals the next round.
func (c *Coordinator) advance(r *Room) {
	if r.allDone() {
		c.finish(r)
		return
	}
	c.gw.Publish(r.Code, broadcast.Event{
		Type: broadcast.EventNextRound,
		Data: broadcast.CodePayload{Code: r.Code},
	})
}

// finishIfComplete ends an active match whose remaining players are all done,
// e.g. after the last slow player left.
func (c *Coordinator) finishIfComplete(r *Room) {
	if r.matchActive() && len(r.Players) > 0 && r.allDone() {
		c.finish(r)
	}
}

func (c *Coordinator) finish(r *Room) {
	r.Phase = PhaseFinished
	c.roomLog(r.Code).Info("match finished")
	c.gw.Publish(r.Code, broadcast.Event{
		Type: broadcast.EventGameOver,
		Data: broadcast.CodePayload{Code: r.Code},
	})
	if c.recorder == nil {
		return
	}

	res := models.MatchResult{
		ID:         uuid.New(),
		RoomCode:   r.Code,
		Rounds:     r.totalRounds(),
		Words:      append([]string(nil), r.Words...),
		StartedAt:  r.StartedAt,
		FinishedAt: c.now(),
	}
	for _, p := range r.Players {
		res.Players = append(res.Players, models.MatchPlayer{Name: p.Name, Score: p.Score, Rounds: p.Round})
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := c.recorder.RecordMatch(ctx, res); err != nil {
			c.roomLog(res.RoomCode).WithError(err).Warn("failed to record match")
		}
	}()
}

// Words answers a single-player word request. No room is involved.
func (c *Coordinator) Words(ctx context.Context, connID string, count int) error {
	if count <= 0 {
		count = DefaultSoloWords
	}
	if count > MaxSoloWords {
		count = MaxSoloWords
	}
	list, err := c.words.Generate(ctx, count, words.MinLength, words.MaxLength)
	if err != nil {
		c.log.WithError(err).WithField("conn", connID).Error("word source failed")
		list = nil
	}
	if list == nil {
		list = []string{}
	}
	c.gw.SendTo(connID, broadcast.Event{Type: broadcast.EventWords, Data: broadcast.WordsPayload{Words: list}})
	return nil
}

// seatNames normalizes names and drops blanks and repeats, keeping order.
func seatNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = normalize(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
