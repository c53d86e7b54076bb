// internal/room/store.go
package room

// Store is the in-memory room table keyed by room code.
// It is only touched from the coordinator goroutine and therefore has no lock.
type Store struct {
	rooms map[string]*Room
	order []string // creation order, used for the room list snapshot
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*Room),
	}
}

// Add stores r under its code. An existing room with the same code is kept.
func (s *Store) Add(r *Room) bool {
	if _, exists := s.rooms[r.Code]; exists {
		return false
	}
	s.rooms[r.Code] = r
	s.order = append(s.order, r.Code)
	return true
}

// Get retrieves a room if it exists.
func (s *Store) Get(code string) (*Room, bool) {
	r, ok := s.rooms[code]
	return r, ok
}

// Delete removes the room and reports whether it existed.
func (s *Store) Delete(code string) bool {
	if _, ok := s.rooms[code]; !ok {
		return false
	}
	delete(s.rooms, code)
	for i, c := range s.order {
		if c == code {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns every room in creation order.
func (s *Store) List() []*Room {
	out := make([]*Room, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, s.rooms[code])
	}
	return out
}

// Len is the number of rooms.
func (s *Store) Len() int {
	return len(s.rooms)
}
