package handler

import (
	"context"

	"github.com/baoduongg/game-library/domain"

	"github.com/gofiber/fiber/v2"
)

type ListOpenRoomsRequest struct {
	GameSlug string `params:"game_slug" json:"-" validate:"required,game_slug"`
}

type ListOpenRoomsResponse struct {
	Rooms []domain.Room `json:"rooms"`
}

type ListOpenRoomsHandler struct {
	coordinator RoomCoordinator
}

func NewListOpenRoomsHandler(coordinator RoomCoordinator) *ListOpenRoomsHandler {
	return &ListOpenRoomsHandler{coordinator: coordinator}
}

func (h *ListOpenRoomsHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *ListOpenRoomsRequest) (*ListOpenRoomsResponse, int, error) {
	rooms, err := h.coordinator.ListOpenRooms(ctx, req.GameSlug)
	if err != nil {
		status, err := mapError(err)
		return nil, status, err
	}
	return &ListOpenRoomsResponse{Rooms: rooms}, fiber.StatusOK, nil
}
