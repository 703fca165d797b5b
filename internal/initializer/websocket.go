package initializer

import (
	"context"

	"github.com/baoduongg/game-library/internal/api/ws/hub"
)

func InitLobbyHub(ctx context.Context, w hub.OpenRoomsWatcher) *hub.LobbyHub {
	lobby := hub.NewLobbyHub(w)
	go lobby.Run(ctx)
	return lobby
}
