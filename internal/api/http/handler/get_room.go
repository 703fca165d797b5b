package handler

import (
	"context"

	"github.com/baoduongg/game-library/domain"

	"github.com/gofiber/fiber/v2"
)

type GetRoomRequest struct {
	RoomID string `params:"room_id" json:"-" validate:"required"`
}

type GetRoomHandler struct {
	coordinator RoomCoordinator
}

func NewGetRoomHandler(coordinator RoomCoordinator) *GetRoomHandler {
	return &GetRoomHandler{coordinator: coordinator}
}

func (h *GetRoomHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *GetRoomRequest) (*domain.Room, int, error) {
	room, err := h.coordinator.GetRoom(ctx, req.RoomID)
	if err != nil {
		status, err := mapError(err)
		return nil, status, err
	}
	return room, fiber.StatusOK, nil
}
