// internal/handlers/dispatch.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jason-s-yu/wordbattle/internal/broadcast"
	"github.com/jason-s-yu/wordbattle/internal/room"
	"golang.org/x/time/rate"
)

// session is the per-connection state of the read side.
type session struct {
	rooms   RoomService
	conn    *wsConn
	limiter *rate.Limiter
	burst   int
	dropped int
}

// envelope is an inbound frame.
type envelope struct {
	Type string          `json:"type"`
	Ack  *int64          `json:"ack"`
	Data json.RawMessage `json:"data"`
}

type createRoomRequest struct {
	Code     string `json:"code"`
	Max      int    `json:"max"`
	Username string `json:"username"`
}

type memberRequest struct {
	Code     string `json:"code"`
	Username string `json:"username"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type startGameRequest struct {
	Code     string             `json:"code"`
	Settings broadcast.Settings `json:"settings"`
	Players  []string           `json:"players"`
}

type reportRequest struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type wordsRequest struct {
	Count int `json:"count"`
}

// handle decodes one frame and forwards it to the room service. Malformed input is
// dropped without a reply.
func (s *session) handle(ctx context.Context, msg []byte) {
	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		s.conn.log.Debugf("invalid json: %v", err)
		return
	}
	log := s.conn.log.WithField("event", env.Type)

	var err error
	switch env.Type {
	case broadcast.EventGetRooms:
		err = s.rooms.ListRooms(ctx, s.conn.ID())

	case broadcast.EventCreateRoom:
		var req createRoomRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.rooms.CreateRoom(ctx, s.conn.ID(), req.Code, req.Max, req.Username)
		}
		s.ack(env.Ack, err)

	case broadcast.EventJoinRoom:
		var req memberRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.rooms.JoinRoom(ctx, s.conn.ID(), req.Code, req.Username)
		}
		s.ack(env.Ack, err)

	case broadcast.EventLeaveRoom:
		var req memberRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.rooms.LeaveRoom(ctx, s.conn.ID(), req.Code, req.Username)
		}

	case broadcast.EventGetRoomPlayers:
		var req codeRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.rooms.RoomPlayers(ctx, s.conn.ID(), req.Code)
		}

	case broadcast.EventRoomChat:
		var req broadcast.ChatPayload
		if err = decode(env.Data, &req); err == nil {
			err = s.rooms.Chat(ctx, req.Code, req.Username, req.Text)
		}

	case broadcast.EventSettingsUpdate:
		var req broadcast.SettingsPayload
		if err = decode(env.Data, &req); err == nil {
			err = s.rooms.UpdateSettings(ctx, req.Code, req.Settings)
		}

	case broadcast.EventStartGame:
		var req startGameRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.rooms.StartGame(ctx, req.Code, req.Settings, req.Players)
		}

	case broadcast.EventPlayerMissed:
		var req reportRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.rooms.ReportMiss(ctx, req.Code, req.Name)
		}

	case broadcast.EventPlayerScored:
		var req reportRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.rooms.ReportScore(ctx, req.Code, req.Name, req.Score)
		}

	case broadcast.EventDeleteRoom:
		var req codeRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.rooms.DeleteRoom(ctx, req.Code)
		}

	case broadcast.EventGetWords:
		var req wordsRequest
		if len(env.Data) > 0 {
			if err = decode(env.Data, &req); err != nil {
				break
			}
		}
		err = s.rooms.Words(ctx, s.conn.ID(), req.Count)

	default:
		log.Warn("unknown event type")
		return
	}

	switch {
	case err == nil, room.IsRejection(err):
	case errors.Is(err, room.ErrMalformed):
		log.Debug("malformed event dropped")
	default:
		log.WithError(err).Warn("event failed")
	}
}

// ack answers createRoom/joinRoom when the client asked for an acknowledgement.
// Malformed requests get no answer.
func (s *session) ack(id *int64, err error) {
	if id == nil {
		return
	}
	var payload broadcast.AckPayload
	switch {
	case err == nil:
		payload.Success = true
	case room.IsRejection(err):
		payload.Error = err.Error()
	default:
		return
	}
	s.conn.Send(broadcast.Event{Type: broadcast.EventAck, Ack: id, Data: payload})
}

// decode unmarshals a payload; a missing or mistyped payload is malformed.
func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return room.ErrMalformed
	}
	if err := json.Unmarshal(data, v); err != nil {
		return room.ErrMalformed
	}
	return nil
}
