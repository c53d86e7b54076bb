// internal/broadcast/gateway.go
package broadcast

import (
	"sort"
	"sync"
)

// Conn is one connected client as seen by the gateway.
// Send must not block; slow clients drop messages instead.
type Conn interface {
	ID() string
	Send(ev Event)
}

// Gateway fans events out to every connection or to the subscribers of a room code.
type Gateway struct {
	mu     sync.RWMutex
	conns  map[string]Conn
	topics map[string]map[string]Conn // room code -> conn id -> conn
}

// NewGateway returns an empty gateway.
func NewGateway() *Gateway {
	return &Gateway{
		conns:  make(map[string]Conn),
		topics: make(map[string]map[string]Conn),
	}
}

// Register makes a connection reachable by PublishAll and SendTo.
func (g *Gateway) Register(c Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conns[c.ID()] = c
}

// Unregister removes a connection from the gateway and from every topic.
func (g *Gateway) Unregister(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.conns, id)
	for code, subs := range g.topics {
		delete(subs, id)
		if len(subs) == 0 {
			delete(g.topics, code)
		}
	}
}

// Subscribe adds a registered connection to the room topic. Unknown ids are ignored.
func (g *Gateway) Subscribe(code, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.conns[id]
	if !ok {
		return
	}
	subs, ok := g.topics[code]
	if !ok {
		subs = make(map[string]Conn)
		g.topics[code] = subs
	}
	subs[id] = c
}

// Unsubscribe removes a connection from one room topic.
func (g *Gateway) Unsubscribe(code, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	subs, ok := g.topics[code]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(g.topics, code)
	}
}

// DropTopic forgets every subscription for a room code.
func (g *Gateway) DropTopic(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.topics, code)
}

// Subscribers lists the connection ids subscribed to a room code, sorted.
func (g *Gateway) Subscribers(code string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.topics[code]))
	for id := range g.topics[code] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Publish sends ev to every subscriber of code.
func (g *Gateway) Publish(code string, ev Event) {
	g.mu.RLock()
	targets := make([]Conn, 0, len(g.topics[code]))
	for _, c := range g.topics[code] {
		targets = append(targets, c)
	}
	g.mu.RUnlock()

	for _, c := range targets {
		c.Send(ev)
	}
}

// PublishAll sends ev to every registered connection.
func (g *Gateway) PublishAll(ev Event) {
	g.mu.RLock()
	targets := make([]Conn, 0, len(g.conns))
	for _, c := range g.conns {
		targets = append(targets, c)
	}
	g.mu.RUnlock()

	for _, c := range targets {
		c.Send(ev)
	}
}

// SendTo delivers ev to a single connection if it is still registered.
func (g *Gateway) SendTo(id string, ev Event) {
	g.mu.RLock()
	c, ok := g.conns[id]
	g.mu.RUnlock()
	if ok {
		c.Send(ev)
	}
}
