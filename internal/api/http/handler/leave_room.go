package handler

import (
	"context"

	"github.com/baoduongg/game-library/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeaveRoomRequest struct {
	RoomID string `params:"room_id" json:"-" validate:"required"`
}

type LeaveRoomResponse struct {
	Message string `json:"message"`
}

type LeaveRoomHandler struct {
	coordinator RoomCoordinator
}

func NewLeaveRoomHandler(coordinator RoomCoordinator) *LeaveRoomHandler {
	return &LeaveRoomHandler{coordinator: coordinator}
}

func (h *LeaveRoomHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *LeaveRoomRequest) (*LeaveRoomResponse, int, error) {
	if err := h.coordinator.LeaveRoom(ctx, req.RoomID, middleware.Session(fbrCtx)); err != nil {
		status, err := mapError(err)
		return nil, status, err
	}
	return &LeaveRoomResponse{Message: "left room"}, fiber.StatusOK, nil
}
