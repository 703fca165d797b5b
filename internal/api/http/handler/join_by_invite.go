package handler

import (
	"context"

	"github.com/baoduongg/game-library/domain"
	"github.com/baoduongg/game-library/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// JoinByInviteRequest mirrors the invite link, /play/:game_slug?room=:id.
type JoinByInviteRequest struct {
	GameSlug string `params:"game_slug" json:"-" validate:"required,game_slug"`
	RoomID   string `query:"room" json:"-" validate:"required"`
}

type JoinByInviteHandler struct {
	coordinator RoomCoordinator
}

func NewJoinByInviteHandler(coordinator RoomCoordinator) *JoinByInviteHandler {
	return &JoinByInviteHandler{coordinator: coordinator}
}

func (h *JoinByInviteHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *JoinByInviteRequest) (*domain.Room, int, error) {
	link := fbrCtx.BaseURL() + fbrCtx.OriginalURL()

	room, err := h.coordinator.JoinByInviteLink(ctx, link, middleware.Session(fbrCtx))
	if err != nil {
		status, err := mapError(err)
		return nil, status, err
	}
	return room, fiber.StatusOK, nil
}
