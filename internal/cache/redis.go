// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jason-s-yu/wordbattle/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list finished matches are pushed onto.
const DefaultQueueName = "wordbattle_matches"

// ConnectRedis opens a client and verifies it with a PING.
func ConnectRedis(addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// MatchPublisher pushes finished matches onto a Redis list for the historian.
type MatchPublisher struct {
	rdb   redis.Cmdable
	queue string
}

// NewMatchPublisher returns a publisher writing to queue (DefaultQueueName if empty).
func NewMatchPublisher(rdb redis.Cmdable, queue string) *MatchPublisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &MatchPublisher{rdb: rdb, queue: queue}
}

// RecordMatch serializes the result to JSON and RPUSHes it.
func (p *MatchPublisher) RecordMatch(ctx context.Context, res models.MatchResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal MatchResult: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}

// ErrBadRecord wraps queue entries that are not valid MatchResult JSON.
var ErrBadRecord = errors.New("invalid match record")

// MatchQueue pops finished matches pushed by MatchPublisher.
type MatchQueue struct {
	rdb   redis.Cmdable
	queue string
}

// NewMatchQueue returns a consumer of queue (DefaultQueueName if empty).
func NewMatchQueue(rdb redis.Cmdable, queue string) *MatchQueue {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &MatchQueue{rdb: rdb, queue: queue}
}

// Pop waits up to timeout for the next record. ok is false when the queue stayed empty.
func (q *MatchQueue) Pop(ctx context.Context, timeout time.Duration) (res models.MatchResult, ok bool, err error) {
	vals, err := q.rdb.BLPop(ctx, timeout, q.queue).Result()
	if errors.Is(err, redis.Nil) {
		return res, false, nil
	}
	if err != nil {
		return res, false, fmt.Errorf("BLPop %s: %w", q.queue, err)
	}
	// vals[0] is the list name, vals[1] the payload
	if len(vals) < 2 {
		return res, false, nil
	}
	if err := json.Unmarshal([]byte(vals[1]), &res); err != nil {
		return res, false, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	return res, true, nil
}
