// internal/room/reaper.go
package room

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// ReapIdle deletes rooms that are empty or finished and have been idle longer than
// the configured TTL. It returns the number of rooms removed.
func (c *Coordinator) ReapIdle(ctx context.Context) (int, error) {
	if c.idleTTL <= 0 {
		return 0, nil
	}
	removed := 0
	err := c.do(ctx, func() {
		now := c.now()
		var stale []string
		for _, r := range c.store.List() {
			if len(r.Players) > 0 && r.Phase != PhaseFinished {
				continue
			}
			if now.Sub(r.LastActive) > c.idleTTL {
				stale = append(stale, r.Code)
			}
		}
		if len(stale) == 0 {
			return
		}
		for _, code := range stale {
			c.store.Delete(code)
			c.gw.DropTopic(code)
			c.members.DropRoom(code)
			c.roomLog(code).Info("reaped idle room")
		}
		removed = len(stale)
		c.publishRooms()
	})
	return removed, err
}

// StartReaper schedules ReapIdle with a cron schedule such as "@every 1m".
// The caller stops the returned scheduler.
func (c *Coordinator) StartReaper(ctx context.Context, schedule string) (*cron.Cron, error) {
	sched := cron.New()
	_, err := sched.AddFunc(schedule, func() {
		n, err := c.ReapIdle(ctx)
		if err != nil {
			c.log.WithError(err).Warn("idle room reaper failed")
			return
		}
		if n > 0 {
			c.log.Infof("idle room reaper removed %d rooms", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reaper schedule %q: %w", schedule, err)
	}
	sched.Start()
	return sched, nil
}
