// Package room coordinates multiplayer word-search rooms.
//
// A single Coordinator goroutine owns the Store and the Registry; every
// exported operation is queued onto that goroutine and runs to completion
// before the next one starts, so rooms and players are never locked.
// After each mutation the coordinator republishes full snapshots through a
// broadcast.Gateway.
//
// Score and round reports are trusted as sent by clients, and the host-only
// operations (settings, start) are not checked against the sender.
package room
