package coordinator

import (
	"context"
	"encoding/json"

	"github.com/baoduongg/game-library/domain"
)

// RoomRepository is the set of atomic primitives the coordinator builds on.
// Each mutation is a single read-check-write against the committed record.
type RoomRepository interface {
	Create(ctx context.Context, gameSlug, creator, creatorName string) (string, error)
	Get(ctx context.Context, roomID string) (*domain.Room, error)
	ConditionalAddPlayer(ctx context.Context, roomID, identity, name string) (*domain.Room, bool, error)
	RemovePlayer(ctx context.Context, roomID, identity string) (*domain.Room, domain.LeaveResult, error)
	UpdateGameState(ctx context.Context, roomID string, newState json.RawMessage, nextTurn *string, expectedTurn string) (*domain.Room, error)
	SetWinner(ctx context.Context, roomID, winner string) (*domain.Room, bool, error)
	ListOpen(ctx context.Context, gameSlug string) ([]domain.Room, error)
}

// ChangePublisher wakes up watchers after a mutation has committed.
type ChangePublisher interface {
	Publish(ctx context.Context, channel string, event domain.RoomEvent) error
}

// EventPublisher ships lifecycle events to the rest of the platform.
type EventPublisher interface {
	PublishRoomEvent(ctx context.Context, event domain.RoomEvent) error
}
