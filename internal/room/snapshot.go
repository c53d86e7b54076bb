// internal/room/snapshot.go
package room

import "github.com/jason-s-yu/wordbattle/internal/broadcast"

func (c *Coordinator) roomsEvent() broadcast.Event {
	list := c.store.List()
	rooms := make([]broadcast.RoomSummary, 0, len(list))
	for _, r := range list {
		rooms = append(rooms, r.summary())
	}
	return broadcast.Event{Type: broadcast.EventRooms, Data: rooms}
}

func roomPlayersEvent(r *Room) broadcast.Event {
	return broadcast.Event{
		Type: broadcast.EventRoomPlayers,
		Data: broadcast.RoomPlayersPayload{
			Code:    r.Code,
			Players: r.playerStates(),
			Max:     r.Max,
			Locked:  r.Locked,
		},
	}
}

func gameStartedEvent(r *Room) broadcast.Event {
	return broadcast.Event{
		Type: broadcast.EventGameStarted,
		Data: broadcast.GameStartedPayload{
			Code:     r.Code,
			Settings: r.settingsValue(),
			Players:  r.playerStates(),
			Words:    append([]string{}, r.Words...),
		},
	}
}

func settingsEvent(r *Room) broadcast.Event {
	return broadcast.Event{
		Type: broadcast.EventSettingsUpdate,
		Data: broadcast.SettingsPayload{Code: r.Code, Settings: r.settingsValue()},
	}
}

// publishRooms sends the room list to every connection.
func (c *Coordinator) publishRooms() {
	c.gw.PublishAll(c.roomsEvent())
}

// publishRoomPlayers sends the membership snapshot to the room's subscribers.
func (c *Coordinator) publishRoomPlayers(r *Room) {
	c.gw.Publish(r.Code, roomPlayersEvent(r))
}
