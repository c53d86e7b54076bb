// internal/historian/historian.go
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/jason-s-yu/wordbattle/internal/models"
	"github.com/sirupsen/logrus"
)

// Source yields queued match results. Pop returns ok=false when nothing arrived
// within timeout.
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (models.MatchResult, bool, error)
}

// Sink persists a batch of results atomically.
type Sink interface {
	InsertMatchResults(ctx context.Context, results []models.MatchResult) error
}

// Options tunes batching. Zero values select the defaults.
type Options struct {
	BatchSize  int
	FlushDelay time.Duration
	// PopTimeout bounds each blocking read so flushes and shutdown are not starved.
	PopTimeout time.Duration
	// MaxPending caps records kept for retry after failed flushes; the oldest are dropped.
	MaxPending int
	Logger     logrus.FieldLogger
}

// Service drains finished matches from a queue into the database in batches.
type Service struct {
	src        Source
	sink       Sink
	batchSize  int
	flushDelay time.Duration
	popTimeout time.Duration
	maxPending int
	log        logrus.FieldLogger

	batchMu sync.Mutex
	batch   []models.MatchResult
}

// New builds a historian reading from src and writing to sink.
func New(src Source, sink Sink, opts Options) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.FlushDelay <= 0 {
		opts.FlushDelay = 500 * time.Millisecond
	}
	if opts.PopTimeout <= 0 {
		opts.PopTimeout = time.Second
	}
	if opts.MaxPending <= 0 {
		opts.MaxPending = 50 * opts.BatchSize
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Service{
		src:        src,
		sink:       sink,
		batchSize:  opts.BatchSize,
		flushDelay: opts.FlushDelay,
		popTimeout: opts.PopTimeout,
		maxPending: opts.MaxPending,
		log:        opts.Logger,
		batch:      make([]models.MatchResult, 0, opts.BatchSize),
	}
}

// Run pops records until ctx is cancelled, then flushes what is left.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.flushDelay)
	defer ticker.Stop()
	s.log.Info("historian started")

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.flush(flushCtx)
			cancel()
			s.log.Info("historian stopped")
			return nil

		case <-ticker.C:
			s.flush(ctx)

		default:
			res, ok, err := s.src.Pop(ctx, s.popTimeout)
			if err != nil {
				if ctx.Err() == nil {
					s.log.WithError(err).Error("queue pop failed")
					s.pause(ctx)
				}
				continue
			}
			if !ok {
				continue
			}
			if s.append(res) {
				s.flush(ctx)
			}
		}
	}
}

// pause backs off briefly after a queue error so a dead Redis is not hammered.
func (s *Service) pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(s.flushDelay):
	}
}

// append adds a record and reports whether the batch is full.
func (s *Service) append(res models.MatchResult) bool {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.batch = append(s.batch, res)
	return len(s.batch) >= s.batchSize
}

// flush writes the pending batch in one transaction. A failed batch is kept for
// the next flush.
func (s *Service) flush(ctx context.Context) {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	if len(s.batch) == 0 {
		return
	}
	pending := make([]models.MatchResult, len(s.batch))
	copy(pending, s.batch)

	if err := s.sink.InsertMatchResults(ctx, pending); err != nil {
		s.log.WithError(err).Errorf("failed to flush %d match results", len(pending))
		if over := len(s.batch) - s.maxPending; over > 0 {
			s.log.Warnf("dropping %d oldest match results", over)
			s.batch = append(s.batch[:0], s.batch[over:]...)
		}
		return
	}
	s.batch = s.batch[:0]
	s.log.Infof("flushed %d match results", len(pending))
}

// Pending reports how many records are waiting to be flushed.
func (s *Service) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch)
}
