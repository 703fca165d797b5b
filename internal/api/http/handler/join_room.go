package handler

import (
	"context"

	"github.com/baoduongg/game-library/domain"
	"github.com/baoduongg/game-library/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type JoinRoomRequest struct {
	RoomID string `params:"room_id" json:"-" validate:"required"`
}

type JoinRoomHandler struct {
	coordinator RoomCoordinator
}

func NewJoinRoomHandler(coordinator RoomCoordinator) *JoinRoomHandler {
	return &JoinRoomHandler{coordinator: coordinator}
}

func (h *JoinRoomHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *JoinRoomRequest) (*domain.Room, int, error) {
	room, err := h.coordinator.JoinRoom(ctx, req.RoomID, middleware.Session(fbrCtx))
	if err != nil {
		status, err := mapError(err)
		return nil, status, err
	}
	return room, fiber.StatusOK, nil
}
