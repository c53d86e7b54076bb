// internal/broadcast/events.go
package broadcast

// Event names carried in the envelope "type" field.
const (
	EventGetRooms       = "getRooms"
	EventRooms          = "rooms"
	EventCreateRoom     = "createRoom"
	EventJoinRoom       = "joinRoom"
	EventLeaveRoom      = "leaveRoom"
	EventGetRoomPlayers = "getRoomPlayers"
	EventRoomPlayers    = "roomPlayers"
	EventRoomChat       = "roomChat"
	EventSettingsUpdate = "roomSettingsUpdate"
	EventStartGame      = "startGame"
	EventGameStarted    = "gameStarted"
	EventPlayerMissed   = "playerMissed"
	EventPlayerScored   = "playerScored"
	EventScoreUpdate    = "scoreUpdate"
	EventNextRound      = "nextRound"
	EventGameOver       = "gameOver"
	EventDeleteRoom     = "deleteRoom"
	EventGetWords       = "getWords"
	EventWords          = "words"
	EventAck            = "ack"
)

// Event is the envelope written to every connection.
type Event struct {
	Type string `json:"type"`
	Ack  *int64 `json:"ack,omitempty"`
	Data any    `json:"data,omitempty"`
}

// RoomSummary is one row of the room list snapshot.
type RoomSummary struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
	Max     int    `json:"max"`
	Locked  bool   `json:"locked"`
}

// PlayerState is a player as it appears in room snapshots.
type PlayerState struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Round int    `json:"round"`
}

// PlayerScore is a scoreboard entry.
type PlayerScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Settings are the host-authored match parameters.
type Settings struct {
	Rounds    int      `json:"rounds"`
	Timer     int      `json:"timer"`
	Placement []string `json:"placement"`
}

type RoomPlayersPayload struct {
	Code    string        `json:"code"`
	Players []PlayerState `json:"players"`
	Max     int           `json:"max"`
	Locked  bool          `json:"locked"`
}

type ChatPayload struct {
	Code     string `json:"code"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

type SettingsPayload struct {
	Code     string   `json:"code"`
	Settings Settings `json:"settings"`
}

// GameStartedPayload is sent at match start and as the late-joiner catch-up.
type GameStartedPayload struct {
	Code     string        `json:"code"`
	Settings Settings      `json:"settings"`
	Players  []PlayerState `json:"players"`
	Words    []string      `json:"words"`
}

type ScoreUpdatePayload struct {
	Code    string        `json:"code"`
	Players []PlayerScore `json:"players"`
}

// CodePayload is shared by nextRound and gameOver.
type CodePayload struct {
	Code string `json:"code"`
}

type WordsPayload struct {
	Words []string `json:"words"`
}

// AckPayload answers createRoom and joinRoom.
type AckPayload struct {
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}
