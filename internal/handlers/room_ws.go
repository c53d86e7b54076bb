// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/wordbattle/internal/broadcast"
	"github.com/jason-s-yu/wordbattle/internal/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	subprotocol       = "wordbattle"
	disconnectTimeout = 5 * time.Second
)

// RoomService is the part of the room coordinator the socket handler drives.
type RoomService interface {
	Connect(conn broadcast.Conn)
	Disconnect(ctx context.Context, connID string) error

	ListRooms(ctx context.Context, connID string) error
	CreateRoom(ctx context.Context, connID, code string, maxPlayers int, username string) error
	JoinRoom(ctx context.Context, connID, code, username string) error
	LeaveRoom(ctx context.Context, connID, code, username string) error
	RoomPlayers(ctx context.Context, connID, code string) error
	Chat(ctx context.Context, code, username, text string) error
	UpdateSettings(ctx context.Context, code string, settings broadcast.Settings) error
	StartGame(ctx context.Context, code string, settings broadcast.Settings, names []string) error
	ReportMiss(ctx context.Context, code, name string) error
	ReportScore(ctx context.Context, code, name string, score int) error
	DeleteRoom(ctx context.Context, code string) error
	Words(ctx context.Context, connID string, count int) error
}

// Limits bounds how many events one connection may send.
type Limits struct {
	Rate  float64 // events per second
	Burst int
}

func (l Limits) limiter() *rate.Limiter {
	if l.Rate <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(l.Rate), l.Burst)
}

// RoomWSHandler upgrades the request and runs the message channel for one client.
func RoomWSHandler(logger *logrus.Logger, rooms RoomService, limits Limits) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{subprotocol},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if r.Header.Get("Sec-WebSocket-Protocol") != "" && c.Subprotocol() != subprotocol {
			c.Close(BadSubprotocolError, "client must speak the wordbattle subprotocol")
			return
		}

		conn := newWSConn(r.RemoteAddr, logger)
		middleware.LogWebSocketConnect(logger, conn.ID(), r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		rooms.Connect(conn)
		go writePump(ctx, cancel, c, conn)

		s := &session{
			rooms:   rooms,
			conn:    conn,
			limiter: limits.limiter(),
			burst:   limits.Burst,
		}
		readErr := s.readPump(ctx, c)

		// the request context may already be gone
		dctx, dcancel := context.WithTimeout(context.Background(), disconnectTimeout)
		if err := rooms.Disconnect(dctx, conn.ID()); err != nil {
			conn.log.WithError(err).Warn("disconnect cleanup failed")
		}
		dcancel()

		middleware.LogWebSocketDisconnect(logger, conn.ID(), r.RemoteAddr, readErr)
		if errors.Is(readErr, errTooManyEvents) {
			c.Close(TooManyEventsError, "rate limit exceeded")
			return
		}
		c.Close(websocket.StatusNormalClosure, "")
	}
}

var errTooManyEvents = errors.New("too many events")

// readPump decodes frames and dispatches them until the socket closes. It returns
// nil on a normal close.
func (s *session) readPump(ctx context.Context, c *websocket.Conn) error {
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			s.conn.log.Debug("ignoring binary frame")
			continue
		}

		if !s.limiter.Allow() {
			s.dropped++
			s.conn.log.Warn("rate limit exceeded, event dropped")
			if s.burst > 0 && s.dropped > s.burst {
				return errTooManyEvents
			}
			continue
		}
		s.dropped = 0

		s.handle(ctx, msg)
	}
}
