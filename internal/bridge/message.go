package bridge

import "encoding/json"

const (
	TypeReady           = "READY"
	TypeInitMultiplayer = "INIT_MULTIPLAYER"
	TypeStateSync       = "STATE_SYNC"
	TypeMove            = "MOVE"
	TypeMoveRejected    = "MOVE_REJECTED"
)

type InitMultiplayerMessage struct {
	Type        string          `json:"type"`
	Identity    string          `json:"identity"`
	DisplayName string          `json:"displayName"`
	RoomID      string          `json:"roomId"`
	GameState   json.RawMessage `json:"gameState"`
	CurrentTurn string          `json:"currentTurn"`
}

// StateSyncMessage carries the state fields of INIT_MULTIPLAYER. The room id
// rides along so a payload can drop syncs meant for another session.
type StateSyncMessage struct {
	Type        string          `json:"type"`
	RoomID      string          `json:"roomId"`
	GameState   json.RawMessage `json:"gameState"`
	CurrentTurn string          `json:"currentTurn"`
}

type MoveRejectedMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

// payloadMessage is anything the embedded game sends to the host.
type payloadMessage struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId"`
	NewState json.RawMessage `json:"newState"`
	NextTurn *string         `json:"nextTurn"`
}
