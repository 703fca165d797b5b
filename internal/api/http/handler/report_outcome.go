package handler

import (
	"context"

	"github.com/baoduongg/game-library/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportOutcomeRequest struct {
	RoomID string `params:"room_id" json:"-" validate:"required"`
	Winner string `json:"winner" validate:"required"`
}

type ReportOutcomeResponse struct {
	Message string `json:"message"`
}

type ReportOutcomeHandler struct {
	coordinator RoomCoordinator
}

func NewReportOutcomeHandler(coordinator RoomCoordinator) *ReportOutcomeHandler {
	return &ReportOutcomeHandler{coordinator: coordinator}
}

func (h *ReportOutcomeHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *ReportOutcomeRequest) (*ReportOutcomeResponse, int, error) {
	err := h.coordinator.ReportOutcome(ctx, req.RoomID, middleware.Session(fbrCtx), req.Winner)
	if err != nil {
		status, err := mapError(err)
		return nil, status, err
	}
	return &ReportOutcomeResponse{Message: "outcome recorded"}, fiber.StatusOK, nil
}
