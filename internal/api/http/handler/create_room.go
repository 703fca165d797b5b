package handler

import (
	"context"

	"github.com/baoduongg/game-library/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CreateRoomRequest struct {
	GameSlug string `json:"gameSlug" validate:"required,game_slug"`
}

type CreateRoomResponse struct {
	RoomID     string `json:"roomId"`
	InviteLink string `json:"inviteLink,omitempty"`
}

type CreateRoomHandler struct {
	coordinator RoomCoordinator
}

func NewCreateRoomHandler(coordinator RoomCoordinator) *CreateRoomHandler {
	return &CreateRoomHandler{coordinator: coordinator}
}

func (h *CreateRoomHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *CreateRoomRequest) (*CreateRoomResponse, int, error) {
	roomID, err := h.coordinator.CreateRoom(ctx, req.GameSlug, middleware.Session(fbrCtx))
	if err != nil {
		status, err := mapError(err)
		return nil, status, err
	}

	link, err := h.coordinator.InviteLink(ctx, roomID)
	if err != nil {
		zap.L().Warn("Failed to build invite link", zap.String("room_id", roomID), zap.Error(err))
	}
	return &CreateRoomResponse{RoomID: roomID, InviteLink: link}, fiber.StatusCreated, nil
}
