// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the room handler.
const (
	BadSubprotocolError = 3000 // Client offered subprotocols but not "wordbattle".
	TooManyEventsError  = 3001 // Client kept sending after its rate limit was exhausted.
)
