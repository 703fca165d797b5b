package wsHandler

import (
	"context"

	"github.com/baoduongg/game-library/domain"
	"github.com/baoduongg/game-library/internal/api/ws/hub"
	"github.com/baoduongg/game-library/internal/middleware"

	"github.com/gofiber/contrib/websocket"
)

type OpenRoomsRequest struct {
	GameSlug string `params:"game_slug" validate:"required,game_slug"`
}

// OpenRoomsHandler streams the waiting rooms of one game to a lobby page.
type OpenRoomsHandler struct {
	hub LobbyHub
}

func NewOpenRoomsHandler(hub LobbyHub) *OpenRoomsHandler {
	return &OpenRoomsHandler{hub: hub}
}

func (h *OpenRoomsHandler) HandleWS(c *websocket.Conn, ctx context.Context, req *OpenRoomsRequest) {
	session := middleware.SessionFromLocals(c.Locals)

	client := domain.NewClient(c, session.Identity, req.GameSlug)
	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)

	hub.Serve(client, func([]byte) {})
}
