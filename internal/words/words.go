// internal/words/words.go
package words

import (
	"context"
	_ "embed"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Default word length bounds used by both multiplayer and single-player requests.
const (
	MinLength = 5
	MaxLength = 8
)

//go:embed wordlist.txt
var builtinList string

// ErrBadBounds is returned when minLen > maxLen or count is negative.
var ErrBadBounds = errors.New("invalid word request bounds")

// Source produces random words. Implementations may return fewer words than requested.
type Source interface {
	Generate(ctx context.Context, count, minLen, maxLen int) ([]string, error)
}

// ListSource draws words from a fixed in-memory list.
type ListSource struct {
	words []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewListSource builds a source over the given words. Blank entries are dropped and
// everything is lower-cased.
func NewListSource(list []string, seed uint64) *ListSource {
	clean := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			clean = append(clean, w)
		}
	}
	return &ListSource{
		words: clean,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Builtin returns a source over the embedded word list, seeded from the clock.
func Builtin() *ListSource {
	return NewListSource(strings.Split(builtinList, "\n"), uint64(time.Now().UnixNano()))
}

// Size is the number of words in the list, regardless of length.
func (s *ListSource) Size() int {
	return len(s.words)
}

// Generate picks up to count distinct words whose length lies in [minLen, maxLen].
func (s *ListSource) Generate(ctx context.Context, count, minLen, maxLen int) ([]string, error) {
	if count < 0 || minLen > maxLen {
		return nil, ErrBadBounds
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool := make([]string, 0, len(s.words))
	for _, w := range s.words {
		n := utf8.RuneCountInString(w)
		if n >= minLen && n <= maxLen {
			pool = append(pool, w)
		}
	}
	if count > len(pool) {
		count = len(pool)
	}

	s.mu.Lock()
	perm := s.rng.Perm(len(pool))
	s.mu.Unlock()

	out := make([]string, count)
	for i := 0; i < count; i++ {
		out[i] = pool[perm[i]]
	}
	return out, nil
}
