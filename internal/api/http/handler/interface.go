package handler

import (
	"context"
	"encoding/json"

	"github.com/baoduongg/game-library/domain"
)

type RoomCoordinator interface {
	CreateRoom(ctx context.Context, gameSlug string, session domain.SessionContext) (string, error)
	JoinRoom(ctx context.Context, roomID string, session domain.SessionContext) (*domain.Room, error)
	JoinByInviteLink(ctx context.Context, linkToken string, session domain.SessionContext) (*domain.Room, error)
	LeaveRoom(ctx context.Context, roomID string, session domain.SessionContext) error
	ReportMove(ctx context.Context, roomID string, session domain.SessionContext, newState json.RawMessage, nextTurn *string) error
	ReportOutcome(ctx context.Context, roomID string, session domain.SessionContext, winner string) error
	GetRoom(ctx context.Context, roomID string) (*domain.Room, error)
	ListOpenRooms(ctx context.Context, gameSlug string) ([]domain.Room, error)
	InviteLink(ctx context.Context, roomID string) (string, error)
}
