package domain

import "fmt"

// RoomChannel is the change-feed channel for a single room.
func RoomChannel(roomID string) string {
	return fmt.Sprintf("room:%s", roomID)
}

// OpenRoomsChannel carries changes to the set of waiting rooms of a game.
func OpenRoomsChannel(gameSlug string) string {
	return fmt.Sprintf("game:%s:open-rooms", gameSlug)
}
