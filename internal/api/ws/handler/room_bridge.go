package wsHandler

import (
	"context"
	"errors"

	"github.com/baoduongg/game-library/domain"
	"github.com/baoduongg/game-library/internal/api/ws/hub"
	"github.com/baoduongg/game-library/internal/bridge"
	"github.com/baoduongg/game-library/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RoomBridgeRequest struct {
	RoomID string `params:"room_id" validate:"required"`
}

// RoomBridgeHandler attaches an embedded game payload to a room it is a
// participant of.
type RoomBridgeHandler struct {
	coordinator RoomCoordinator
	rooms       bridge.RoomWatcher
	config      bridge.Config
}

func NewRoomBridgeHandler(coordinator RoomCoordinator, rooms bridge.RoomWatcher, config bridge.Config) *RoomBridgeHandler {
	return &RoomBridgeHandler{
		coordinator: coordinator,
		rooms:       rooms,
		config:      config,
	}
}

func (h *RoomBridgeHandler) HandleWS(c *websocket.Conn, ctx context.Context, req *RoomBridgeRequest) {
	session := middleware.SessionFromLocals(c.Locals)
	if !session.Authenticated() {
		sendErrorAndClose(c, "sign in to join this room", fiber.StatusUnauthorized)
		return
	}

	room, err := h.coordinator.GetRoom(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			sendErrorAndClose(c, "room no longer available", fiber.StatusNotFound)
		} else {
			sendErrorAndClose(c, "could not load room", fiber.StatusServiceUnavailable)
		}
		return
	}
	if !room.HasPlayer(session.Identity) {
		sendErrorAndClose(c, domain.ErrNotParticipant.Error(), fiber.StatusForbidden)
		return
	}

	client := domain.NewClient(c, session.Identity, domain.RoomChannel(req.RoomID))
	b := bridge.New(req.RoomID, session, hub.ClientSender{Client: client}, h.coordinator, h.rooms, h.config)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		err := b.Run(ctx)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
		case errors.Is(err, domain.ErrRoomNotFound):
			hub.SendJSON(client, domain.WebSocketErrorMessage{Type: "error", Message: "room no longer available", Code: fiber.StatusNotFound})
		case errors.Is(err, bridge.ErrBridgeTimeout):
			hub.SendJSON(client, domain.WebSocketErrorMessage{Type: "error", Message: err.Error(), Code: fiber.StatusGatewayTimeout})
		default:
			zap.L().Warn("Room bridge stopped", zap.String("room_id", req.RoomID), zap.Error(err))
		}
		client.Close()
	}()

	zap.L().Info("Game payload connected", zap.String("room_id", req.RoomID), zap.String("identity", session.Identity))
	hub.Serve(client, func(msg []byte) {
		b.HandleMessage(msg)
	})
	cancel()
	<-b.Done()
	zap.L().Info("Game payload disconnected", zap.String("room_id", req.RoomID), zap.String("identity", session.Identity))
}

func sendErrorAndClose(conn *websocket.Conn, msg string, code int) {
	errorMessage := domain.WebSocketErrorMessage{
		Type:    "error",
		Message: msg,
		Code:    code,
	}
	if err := conn.WriteJSON(errorMessage); err != nil {
		zap.L().Debug("Failed to send error message to client", zap.Error(err))
	}
	conn.Close()
}
