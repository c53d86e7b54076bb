// internal/handlers/conn.go
package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/wordbattle/internal/broadcast"
	"github.com/sirupsen/logrus"
)

const (
	outBuffer    = 64
	pingInterval = 30 * time.Second
	pingTimeout  = 15 * time.Second
	writeTimeout = 5 * time.Second
)

// wsConn is one client socket as seen by the broadcast gateway.
type wsConn struct {
	id      string
	remote  string
	outChan chan broadcast.Event
	log     *logrus.Entry
}

func newWSConn(remote string, logger logrus.FieldLogger) *wsConn {
	id := uuid.NewString()
	return &wsConn{
		id:      id,
		remote:  remote,
		outChan: make(chan broadcast.Event, outBuffer),
		log:     logger.WithFields(logrus.Fields{"conn": id, "remote": remote}),
	}
}

func (c *wsConn) ID() string { return c.id }

// Send queues ev without blocking. Events for a client that cannot keep up are dropped.
func (c *wsConn) Send(ev broadcast.Event) {
	select {
	case c.outChan <- ev:
	default:
		c.log.Warnf("outbound queue full, dropped %q", ev.Type)
	}
}

// writePump drains outChan to the socket and pings the client periodically.
// It cancels the connection context when the socket stops accepting writes.
func writePump(ctx context.Context, cancel context.CancelFunc, ws *websocket.Conn, conn *wsConn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-conn.outChan:
			data, err := json.Marshal(ev)
			if err != nil {
				conn.log.Warnf("failed to marshal %q: %v", ev.Type, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = ws.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				conn.log.Debugf("write failed: %v", err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := ws.Ping(pingCtx)
			cancel()
			if err != nil {
				conn.log.Warnf("ping failed, assuming disconnect: %v", err)
				return
			}
		}
	}
}
