// internal/room/lifecycle.go
package room

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jason-s-yu/wordbattle/internal/broadcast"
)

// ListRooms sends the room list snapshot to one connection.
func (c *Coordinator) ListRooms(ctx context.Context, connID string) error {
	return c.do(ctx, func() {
		c.gw.SendTo(connID, c.roomsEvent())
	})
}

// CreateRoom creates code with username as host. A maxPlayers outside [MinPlayers, MaxPlayers]
// falls back to the default capacity.
func (c *Coordinator) CreateRoom(ctx context.Context, connID, code string, maxPlayers int, username string) error {
	code, username = normalize(code), normalize(username)
	if code == "" || username == "" {
		return ErrMalformed
	}
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayers {
		maxPlayers = c.defaultMax
	}

	var opErr error
	err := c.do(ctx, func() {
		if _, exists := c.store.Get(code); exists {
			opErr = ErrAlreadyExists
			return
		}
		r := newRoom(code, maxPlayers, c.now())
		r.Players = []*Player{{Name: username}}
		c.store.Add(r)

		c.members.Add(connID, username, code)
		c.gw.Subscribe(code, connID)
		c.roomLog(code).WithField("user", username).Infof("room created (max %d)", maxPlayers)

		c.publishRooms()
		c.publishRoomPlayers(r)
	})
	if err != nil {
		return err
	}
	return opErr
}

// JoinRoom admits username into code, creating or repairing the room as needed.
// A full room always rejects. Joining a locked room subscribes the connection as an
// observer and sends the in-progress match; only names already seated keep their seat.
func (c *Coordinator) JoinRoom(ctx context.Context, connID, code, username string) error {
	code, username = normalize(code), normalize(username)
	if code == "" || username == "" {
		return ErrMalformed
	}

	var opErr error
	err := c.do(ctx, func() {
		log := c.roomLog(code).WithField("user", username)
		r, ok := c.store.Get(code)
		if !ok {
			r = newRoom(code, c.defaultMax, c.now())
			c.store.Add(r)
			log.Info("room created by join")
		}

		switch {
		case len(r.Players) == 0:
			// Rooms emptied by disconnects are kept; the next joiner becomes host.
			r.Players = []*Player{{Name: username}}
			c.members.Add(connID, username, code)
			c.gw.Subscribe(code, connID)
			c.touch(r)
			log.Info("joined empty room as host")

			c.publishRooms()
			c.publishRoomPlayers(r)
			c.gw.PublishAll(roomPlayersEvent(r))

		case len(r.Players) >= r.Max:
			log.Info("join rejected, room full")
			opErr = ErrRoomFull
			return

		case r.hasPlayer(username):
			c.members.Add(connID, username, code)
			c.gw.Subscribe(code, connID)
			c.touch(r)
			log.Debug("rejoined room")

			c.publishRoomPlayers(r)

		case r.Locked:
			c.gw.Subscribe(code, connID)
			log.Info("observing locked room")

		default:
			r.Players = append(r.Players, &Player{Name: username})
			c.members.Add(connID, username, code)
			c.gw.Subscribe(code, connID)
			c.touch(r)
			log.Infof("joined room (%d/%d)", len(r.Players), r.Max)

			c.publishRooms()
			c.publishRoomPlayers(r)
		}

		if r.Locked {
			c.gw.SendTo(connID, gameStartedEvent(r))
		} else if r.Settings != nil {
			c.gw.SendTo(connID, settingsEvent(r))
		}
	})
	if err != nil {
		return err
	}
	return opErr
}

// LeaveRoom removes username from code and deletes the room once it is empty.
func (c *Coordinator) LeaveRoom(ctx context.Context, connID, code, username string) error {
	code, username = normalize(code), normalize(username)
	if code == "" || username == "" {
		return ErrMalformed
	}
	return c.do(ctx, func() {
		c.members.Remove(connID, username, code)
		c.gw.Unsubscribe(code, connID)

		r, ok := c.store.Get(code)
		if !ok {
			return
		}
		r.removePlayer(username)
		c.touch(r)
		c.roomLog(code).WithField("user", username).Info("left room")

		if len(r.Players) == 0 {
			c.store.Delete(code)
			c.publishRooms()
			c.publishRoomPlayers(r)
			c.gw.DropTopic(code)
			c.roomLog(code).Info("room deleted, last player left")
			return
		}

		c.publishRooms()
		c.publishRoomPlayers(r)
		c.finishIfComplete(r)
	})
}

// Disconnect removes every player the connection joined. Emptied rooms are kept so
// a returning player can rejoin as host; the reaper collects them later.
func (c *Coordinator) Disconnect(ctx context.Context, connID string) error {
	return c.do(ctx, func() {
		memberships := c.members.Take(connID)
		c.gw.Unregister(connID)
		if len(memberships) == 0 {
			return
		}

		var affected []*Room
		seen := make(map[string]bool)
		for _, m := range memberships {
			r, ok := c.store.Get(m.Code)
			if !ok {
				continue
			}
			if r.removePlayer(m.Username) {
				c.touch(r)
				c.roomLog(m.Code).WithField("user", m.Username).Info("removed on disconnect")
			}
			if !seen[m.Code] {
				seen[m.Code] = true
				affected = append(affected, r)
			}
		}

		c.publishRooms()
		for _, r := range affected {
			c.publishRoomPlayers(r)
			c.finishIfComplete(r)
		}
	})
}

// RoomPlayers sends the current snapshot of code to the requesting connection.
func (c *Coordinator) RoomPlayers(ctx context.Context, connID, code string) error {
	code = normalize(code)
	return c.do(ctx, func() {
		if r, ok := c.store.Get(code); ok {
			c.gw.SendTo(connID, roomPlayersEvent(r))
		}
	})
}

// DeleteRoom tears a room down, typically after its clients saw gameOver.
func (c *Coordinator) DeleteRoom(ctx context.Context, code string) error {
	code = normalize(code)
	return c.do(ctx, func() {
		c.deleteRoom(code)
	})
}

func (c *Coordinator) deleteRoom(code string) bool {
	if !c.store.Delete(code) {
		return false
	}
	c.gw.DropTopic(code)
	c.members.DropRoom(code)
	c.roomLog(code).Info("room deleted")
	c.publishRooms()
	return true
}

// Chat relays a message verbatim to the room. Blank or oversized text is dropped.
func (c *Coordinator) Chat(ctx context.Context, code, username, text string) error {
	code, username = normalize(code), normalize(username)
	trimmed := strings.TrimSpace(text)
	if code == "" || username == "" || trimmed == "" || utf8.RuneCountInString(trimmed) > c.maxChat {
		return ErrMalformed
	}
	return c.do(ctx, func() {
		if r, ok := c.store.Get(code); ok {
			c.touch(r)
		}
		c.gw.Publish(code, broadcast.Event{
			Type: broadcast.EventRoomChat,
			Data: broadcast.ChatPayload{Code: code, Username: username, Text: text},
		})
	})
}

// Rooms returns a copy of the room table for inspection.
func (c *Coordinator) Rooms(ctx context.Context) ([]Room, error) {
	var out []Room
	err := c.do(ctx, func() {
		for _, r := range c.store.List() {
			cp := *r
			cp.Players = make([]*Player, 0, len(r.Players))
			for _, p := range r.Players {
				pc := *p
				cp.Players = append(cp.Players, &pc)
			}
			cp.Words = append([]string(nil), r.Words...)
			out = append(out, cp)
		}
	})
	if err != nil {
		// the closure may still run after a cancelled wait
		return nil, err
	}
	return out, nil
}

// Room returns a copy of one room.
func (c *Coordinator) Room(ctx context.Context, code string) (Room, bool, error) {
	rooms, err := c.Rooms(ctx)
	if err != nil {
		return Room{}, false, err
	}
	for _, r := range rooms {
		if r.Code == code {
			return r, true, nil
		}
	}
	return Room{}, false, nil
}
