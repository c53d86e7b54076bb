package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jason-s-yu/wordbattle/internal/models"
)

const matchResultsSchema = `
	CREATE TABLE IF NOT EXISTS match_results (
		id          UUID PRIMARY KEY,
		room_code   TEXT        NOT NULL,
		rounds      INT         NOT NULL,
		winner      TEXT,
		players     JSONB       NOT NULL,
		words       TEXT[]      NOT NULL,
		started_at  TIMESTAMPTZ,
		finished_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS match_results_room_code_idx ON match_results (room_code);
`

const insertMatchResultQ = `
	INSERT INTO match_results (
		id, room_code, rounds, winner, players, words, started_at, finished_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO NOTHING
`

// DB is the subset of *pgxpool.Pool the match store uses.
type DB interface {
	txBeginner
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// MatchStore persists finished matches.
type MatchStore struct {
	db DB
}

func NewMatchStore(db DB) *MatchStore {
	return &MatchStore{db: db}
}

// EnsureSchema creates the match_results table if it does not exist.
func (s *MatchStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, matchResultsSchema); err != nil {
		return fmt.Errorf("create match_results: %w", err)
	}
	return nil
}

// InsertMatchResults writes a batch in one transaction. Rows already present are skipped,
// so a redelivered batch is harmless.
func (s *MatchStore) InsertMatchResults(ctx context.Context, results []models.MatchResult) error {
	if len(results) == 0 {
		return nil
	}
	return beginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, res := range results {
			if err := insertMatchResultTx(ctx, tx, res); err != nil {
				return fmt.Errorf("insert match %s: %w", res.ID, err)
			}
		}
		return nil
	})
}

func insertMatchResultTx(ctx context.Context, tx pgx.Tx, res models.MatchResult) error {
	args, err := matchResultArgs(res)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, insertMatchResultQ, args...)
	return err
}

// matchResultArgs maps a result onto the insert's positional parameters.
func matchResultArgs(res models.MatchResult) ([]any, error) {
	players, err := json.Marshal(res.Players)
	if err != nil {
		return nil, err
	}
	var winner *string
	if w, ok := res.Winner(); ok {
		winner = &w.Name
	}
	var startedAt any
	if !res.StartedAt.IsZero() {
		startedAt = res.StartedAt
	}
	words := res.Words
	if words == nil {
		words = []string{}
	}
	return []any{res.ID, res.RoomCode, res.Rounds, winner, players, words, startedAt, res.FinishedAt}, nil
}
