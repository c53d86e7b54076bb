package room

import (
	"context"
	"testing"
	"time"

	"github.com/jason-s-yu/wordbattle/internal/broadcast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReapIdle(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	alice, bob, lobby := env.connect("a"), env.connect("b"), env.connect("l")

	require.NoError(t, env.co.CreateRoom(ctx, alice.ID(), "BUSY", 4, "Alice"))
	require.NoError(t, env.co.CreateRoom(ctx, bob.ID(), "EMPTY", 4, "Bob"))
	require.NoError(t, env.co.CreateRoom(ctx, bob.ID(), "DONE", 4, "Bob"))
	require.NoError(t, env.co.StartGame(ctx, "DONE", broadcast.Settings{Rounds: 1}, []string{"Bob"}))
	require.NoError(t, env.co.ReportMiss(ctx, "DONE", "Bob"))
	require.NoError(t, env.co.LeaveRoom(ctx, bob.ID(), "EMPTY", "Bob"))
	// leaving deletes; recreate an empty room the way a disconnect leaves it
	require.NoError(t, env.co.JoinRoom(ctx, bob.ID(), "EMPTY", "Bob"))
	require.NoError(t, env.co.Disconnect(ctx, bob.ID()))

	n, err := env.co.ReapIdle(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing is idle yet")

	env.clock.Advance(11 * time.Minute)
	lobby.clear()

	n, err = env.co.ReapIdle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.True(t, env.hasRoom(t, "BUSY"), "rooms with players in the lobby are kept")
	assert.False(t, env.hasRoom(t, "EMPTY"))
	assert.False(t, env.hasRoom(t, "DONE"))

	ev, ok := lobby.last(broadcast.EventRooms)
	require.True(t, ok)
	assert.Equal(t, []broadcast.RoomSummary{{Code: "BUSY", Players: 1, Max: 4}}, roomList(t, ev))
}

func TestReapIdleDisabled(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.IdleTTL = 0 })
	ctx := context.Background()
	a := env.connect("a")
	require.NoError(t, env.co.JoinRoom(ctx, a.ID(), "R", "Alice"))
	require.NoError(t, env.co.Disconnect(ctx, a.ID()))
	env.clock.Advance(24 * time.Hour)

	n, err := env.co.ReapIdle(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, env.hasRoom(t, "R"))
}

func TestStartReaper(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.co.StartReaper(context.Background(), "not a schedule")
	assert.Error(t, err)

	sched, err := env.co.StartReaper(context.Background(), "@every 1h")
	require.NoError(t, err)
	<-sched.Stop().Done()
}
