package wsHandler

import (
	"context"
	"encoding/json"

	"github.com/baoduongg/game-library/domain"
)

type RoomCoordinator interface {
	GetRoom(ctx context.Context, roomID string) (*domain.Room, error)
	ReportMove(ctx context.Context, roomID string, session domain.SessionContext, newState json.RawMessage, nextTurn *string) error
}

type LobbyHub interface {
	RegisterClient(client *domain.Client)
	UnregisterClient(client *domain.Client)
}
