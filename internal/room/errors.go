// internal/room/errors.go
package room

import "errors"

var (
	// ErrAlreadyExists and ErrRoomFull are reported back to the client in the ack payload.
	ErrAlreadyExists = errors.New("Room already exists")
	ErrRoomFull      = errors.New("Room full or not found")

	// ErrMalformed marks input that is dropped without an ack.
	ErrMalformed    = errors.New("malformed request")
	ErrRoomNotFound = errors.New("room not found")
	ErrClosed       = errors.New("coordinator stopped")
)

// IsRejection reports whether err should be sent to the client as an ack error.
func IsRejection(err error) bool {
	return errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrRoomFull)
}
