package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWinner(t *testing.T) {
	_, ok := MatchResult{}.Winner()
	assert.False(t, ok)

	m := MatchResult{Players: []MatchPlayer{
		{Name: "alice", Score: 3},
		{Name: "bob", Score: 5},
		{Name: "carol", Score: 5},
	}}
	w, ok := m.Winner()
	assert.True(t, ok)
	assert.Equal(t, "bob", w.Name)

	tie := MatchResult{Players: []MatchPlayer{{Name: "host", Score: 2}, {Name: "guest", Score: 2}}}
	w, _ = tie.Winner()
	assert.Equal(t, "host", w.Name)
}
