// internal/room/settings.go
package room

import (
	"context"

	"github.com/jason-s-yu/wordbattle/internal/broadcast"
)

// UpdateSettings stores the lobby settings of code and republishes them to the room.
//
// Only the host is supposed to send this, but the sender is not checked: authorization
// is left to the client.
func (c *Coordinator) UpdateSettings(ctx context.Context, code string, settings broadcast.Settings) error {
	code = normalize(code)
	if code == "" || settings.Rounds < 0 || settings.Timer < 0 {
		return ErrMalformed
	}
	settings.Placement = append([]string(nil), settings.Placement...)

	var opErr error
	err := c.do(ctx, func() {
		r, ok := c.store.Get(code)
		if !ok {
			opErr = ErrRoomNotFound
			return
		}
		r.Settings = &settings
		c.touch(r)
		c.roomLog(code).Debugf("settings updated: %+v", settings)
		c.gw.Publish(code, settingsEvent(r))
	})
	if err != nil {
		return err
	}
	return opErr
}
