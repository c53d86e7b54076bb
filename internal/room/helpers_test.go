package room

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jason-s-yu/wordbattle/internal/broadcast"
	"github.com/jason-s-yu/wordbattle/internal/models"
	"github.com/stretchr/testify/require"
)

// fakeConn collects events instead of writing them to a socket.
type fakeConn struct {
	id     string
	mu     sync.Mutex
	events []broadcast.Event
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(ev broadcast.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeConn) all() []broadcast.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]broadcast.Event(nil), f.events...)
}

func (f *fakeConn) ofType(typ string) []broadcast.Event {
	var out []broadcast.Event
	for _, ev := range f.all() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func (f *fakeConn) count(typ string) int {
	return len(f.ofType(typ))
}

func (f *fakeConn) last(typ string) (broadcast.Event, bool) {
	evs := f.ofType(typ)
	if len(evs) == 0 {
		return broadcast.Event{}, false
	}
	return evs[len(evs)-1], true
}

func (f *fakeConn) clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
}

// stubWords returns a fixed list, truncated to the requested count.
type stubWords struct {
	mu    sync.Mutex
	list  []string
	err   error
	calls int
	gate  chan struct{} // when set, Generate blocks until it is closed
}

func (s *stubWords) Generate(ctx context.Context, count, minLen, maxLen int) ([]string, error) {
	s.mu.Lock()
	s.calls++
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if s.err != nil {
		return nil, s.err
	}
	if count > len(s.list) {
		count = len(s.list)
	}
	return append([]string(nil), s.list[:count]...), nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	results []models.MatchResult
}

func (f *fakeRecorder) RecordMatch(ctx context.Context, res models.MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, res)
	return nil
}

func (f *fakeRecorder) recorded() []models.MatchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.MatchResult(nil), f.results...)
}

type testEnv struct {
	co       *Coordinator
	gw       *broadcast.Gateway
	words    *stubWords
	recorder *fakeRecorder
	clock    *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestEnv(t *testing.T, mutate func(*Options)) *testEnv {
	t.Helper()
	env := &testEnv{
		gw:       broadcast.NewGateway(),
		words:    &stubWords{list: []string{"planet", "violin", "garden", "rocket", "meadow", "lantern", "harbor", "falcon"}},
		recorder: &fakeRecorder{},
		clock:    &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	opts := Options{
		Words:    env.words,
		Recorder: env.recorder,
		IdleTTL:  10 * time.Minute,
		Now:      env.clock.Now,
	}
	if mutate != nil {
		mutate(&opts)
	}
	env.co = NewCoordinator(env.gw, opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = env.co.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return env
}

func (e *testEnv) connect(id string) *fakeConn {
	c := &fakeConn{id: id}
	e.co.Connect(c)
	return c
}

func (e *testEnv) room(t *testing.T, code string) Room {
	t.Helper()
	r, ok, err := e.co.Room(context.Background(), code)
	require.NoError(t, err)
	require.True(t, ok, "room %s should exist", code)
	return r
}

func (e *testEnv) hasRoom(t *testing.T, code string) bool {
	t.Helper()
	_, ok, err := e.co.Room(context.Background(), code)
	require.NoError(t, err)
	return ok
}

func names(r Room) []string {
	out := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p.Name)
	}
	return out
}

func roomList(t *testing.T, ev broadcast.Event) []broadcast.RoomSummary {
	t.Helper()
	list, ok := ev.Data.([]broadcast.RoomSummary)
	require.True(t, ok, "rooms payload has type %T", ev.Data)
	return list
}
