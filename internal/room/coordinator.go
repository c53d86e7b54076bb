// internal/room/coordinator.go
package room

import (
	"context"
	"io"
	"time"

	"github.com/jason-s-yu/wordbattle/internal/broadcast"
	"github.com/jason-s-yu/wordbattle/internal/models"
	"github.com/jason-s-yu/wordbattle/internal/words"
	"github.com/sirupsen/logrus"
)

// MatchRecorder receives every finished match. Calls happen off the event loop.
type MatchRecorder interface {
	RecordMatch(ctx context.Context, res models.MatchResult) error
}

// Options configures a Coordinator. Zero values select the defaults.
type Options struct {
	Logger   logrus.FieldLogger
	Words    words.Source
	Recorder MatchRecorder

	// StartDelay is how long gameStarted waits after the room is locked, so that
	// every participant has subscribed to the room. It is a heuristic, not a barrier.
	StartDelay time.Duration

	DefaultMax    int
	IdleTTL       time.Duration
	MaxChatLength int

	Now func() time.Time
}

// Coordinator owns the room table and serialises every room operation on one goroutine.
type Coordinator struct {
	store   *Store
	members *Registry
	gw      *broadcast.Gateway

	log        logrus.FieldLogger
	words      words.Source
	recorder   MatchRecorder
	startDelay time.Duration
	defaultMax int
	idleTTL    time.Duration
	maxChat    int
	now        func() time.Time

	inbox   chan func()
	stopped chan struct{}
}

// NewCoordinator builds a coordinator publishing through gw. Call Run to start it.
func NewCoordinator(gw *broadcast.Gateway, opts Options) *Coordinator {
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.Words == nil {
		opts.Words = words.Builtin()
	}
	if opts.DefaultMax < MinPlayers || opts.DefaultMax > MaxPlayers {
		opts.DefaultMax = MaxPlayers
	}
	if opts.MaxChatLength <= 0 {
		opts.MaxChatLength = 500
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Coordinator{
		store:      NewStore(),
		members:    NewRegistry(),
		gw:         gw,
		log:        opts.Logger,
		words:      opts.Words,
		recorder:   opts.Recorder,
		startDelay: opts.StartDelay,
		defaultMax: opts.DefaultMax,
		idleTTL:    opts.IdleTTL,
		maxChat:    opts.MaxChatLength,
		now:        opts.Now,
		inbox:      make(chan func(), 64),
		stopped:    make(chan struct{}),
	}
}

// Run processes queued operations until ctx is cancelled. It must be called once.
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.stopped)
	c.log.Info("room coordinator started")
	for {
		select {
		case <-ctx.Done():
			c.log.Info("room coordinator stopping")
			return ctx.Err()
		case fn := <-c.inbox:
			fn()
		}
	}
}

// do queues fn on the event loop and waits for it to finish.
func (c *Coordinator) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case c.inbox <- func() { defer close(done); fn() }:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.stopped:
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.stopped:
		return ErrClosed
	}
}

// post queues fn without waiting. Used by timers.
func (c *Coordinator) post(fn func()) {
	select {
	case c.inbox <- fn:
	case <-c.stopped:
	}
}

// Connect makes a connection reachable for room-list broadcasts.
func (c *Coordinator) Connect(conn broadcast.Conn) {
	c.gw.Register(conn)
}

func (c *Coordinator) roomLog(code string) *logrus.Entry {
	return c.log.WithField("room", code)
}

func (c *Coordinator) touch(r *Room) {
	r.LastActive = c.now()
}
