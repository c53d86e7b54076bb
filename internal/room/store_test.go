package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreKeepsCreationOrder(t *testing.T) {
	s := NewStore()
	now := time.Now()
	assert.True(t, s.Add(newRoom("B", 4, now)))
	assert.True(t, s.Add(newRoom("A", 4, now)))
	assert.True(t, s.Add(newRoom("C", 4, now)))
	assert.False(t, s.Add(newRoom("A", 2, now)), "duplicate code must not overwrite")

	a, _ := s.Get("A")
	assert.Equal(t, 4, a.Max)

	assert.True(t, s.Delete("A"))
	assert.False(t, s.Delete("A"))

	var codes []string
	for _, r := range s.List() {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []string{"B", "C"}, codes)
	assert.Equal(t, 2, s.Len())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Add("c1", "alice", "R1")
	reg.Add("c1", "alice", "R1")
	reg.Add("c1", "alice", "R2")
	reg.Add("c2", "bob", "R1")

	assert.Equal(t, []Membership{{"alice", "R1"}, {"alice", "R2"}}, reg.Memberships("c1"))

	reg.Remove("c1", "alice", "R2")
	assert.Equal(t, []Membership{{"alice", "R1"}}, reg.Memberships("c1"))

	reg.DropRoom("R1")
	assert.Empty(t, reg.Memberships("c1"))
	assert.Empty(t, reg.Memberships("c2"))

	reg.Add("c3", "carol", "R3")
	assert.Equal(t, []Membership{{"carol", "R3"}}, reg.Take("c3"))
	assert.Empty(t, reg.Take("c3"))
}

func TestRoomHelpers(t *testing.T) {
	r := newRoom("R", 4, time.Now())
	assert.Equal(t, "", r.Host())
	assert.Equal(t, 1, r.totalRounds())

	r.Players = []*Player{{Name: "alice"}, {Name: "bob"}}
	assert.Equal(t, "alice", r.Host())
	assert.True(t, r.removePlayer("alice"))
	assert.False(t, r.removePlayer("alice"))
	assert.Equal(t, "bob", r.Host())

	assert.Equal(t, "in_progress", PhaseInProgress.String())
}
