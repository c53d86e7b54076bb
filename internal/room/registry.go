// internal/room/registry.go
package room

// Membership is one (username, room) pair joined through a connection.
type Membership struct {
	Username string
	Code     string
}

// Registry remembers which memberships each connection holds so a disconnect
// can remove them. It carries no game state.
type Registry struct {
	conns map[string][]Membership
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string][]Membership)}
}

// Add records a membership; duplicates are ignored.
func (reg *Registry) Add(connID, username, code string) {
	m := Membership{Username: username, Code: code}
	for _, existing := range reg.conns[connID] {
		if existing == m {
			return
		}
	}
	reg.conns[connID] = append(reg.conns[connID], m)
}

// Remove forgets one membership of a connection.
func (reg *Registry) Remove(connID, username, code string) {
	list := reg.conns[connID]
	kept := list[:0]
	for _, m := range list {
		if m.Username == username && m.Code == code {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		delete(reg.conns, connID)
		return
	}
	reg.conns[connID] = kept
}

// Take returns and forgets every membership of a connection.
func (reg *Registry) Take(connID string) []Membership {
	list := reg.conns[connID]
	delete(reg.conns, connID)
	return list
}

// DropRoom forgets every membership pointing at code.
func (reg *Registry) DropRoom(code string) {
	for connID, list := range reg.conns {
		kept := list[:0]
		for _, m := range list {
			if m.Code != code {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			delete(reg.conns, connID)
		} else {
			reg.conns[connID] = kept
		}
	}
}

// Memberships returns a copy of a connection's memberships.
func (reg *Registry) Memberships(connID string) []Membership {
	return append([]Membership(nil), reg.conns[connID]...)
}
