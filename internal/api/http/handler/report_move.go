package handler

import (
	"context"
	"encoding/json"

	"github.com/baoduongg/game-library/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportMoveRequest struct {
	RoomID   string          `params:"room_id" json:"-" validate:"required"`
	NewState json.RawMessage `json:"newState" validate:"required"`
	NextTurn *string         `json:"nextTurn"`
}

type ReportMoveResponse struct {
	Message string `json:"message"`
}

type ReportMoveHandler struct {
	coordinator RoomCoordinator
}

func NewReportMoveHandler(coordinator RoomCoordinator) *ReportMoveHandler {
	return &ReportMoveHandler{coordinator: coordinator}
}

func (h *ReportMoveHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *ReportMoveRequest) (*ReportMoveResponse, int, error) {
	err := h.coordinator.ReportMove(ctx, req.RoomID, middleware.Session(fbrCtx), req.NewState, req.NextTurn)
	if err != nil {
		status, err := mapError(err)
		return nil, status, err
	}
	return &ReportMoveResponse{Message: "move accepted"}, fiber.StatusOK, nil
}
