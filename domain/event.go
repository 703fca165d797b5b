package domain

import "time"

type RoomEventType string

const (
	EventRoomCreated  RoomEventType = "room_created"
	EventPlayerJoined RoomEventType = "player_joined"
	EventGameStarted  RoomEventType = "game_started"
	EventPlayerLeft   RoomEventType = "player_left"
	EventRoomDeleted  RoomEventType = "room_deleted"
	EventGameFinished RoomEventType = "game_finished"
	EventStateUpdated RoomEventType = "state_updated"
)

// RoomEvent describes a committed room mutation. It is used both as the
// change-feed notification and as the lifecycle event sent to Kafka.
type RoomEvent struct {
	Type      RoomEventType `json:"type"`
	RoomID    string        `json:"roomId"`
	GameSlug  string        `json:"gameSlug"`
	Identity  string        `json:"identity,omitempty"`
	Status    RoomStatus    `json:"status,omitempty"`
	Winner    *string       `json:"winner,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
