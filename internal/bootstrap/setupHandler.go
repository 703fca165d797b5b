package bootstrap

import (
	"github.com/baoduongg/game-library/config"
	httpHandler "github.com/baoduongg/game-library/internal/api/http/handler"
	wsHandler "github.com/baoduongg/game-library/internal/api/ws/handler"
	"github.com/baoduongg/game-library/internal/bridge"
	"github.com/baoduongg/game-library/internal/coordinator"
	"github.com/baoduongg/game-library/internal/watcher"
)

func SetupHTTPHandlers(roomCoordinator *coordinator.Coordinator) map[string]interface{} {
	return map[string]interface{}{
		"create-room":     httpHandler.NewCreateRoomHandler(roomCoordinator),
		"get-room":        httpHandler.NewGetRoomHandler(roomCoordinator),
		"join-room":       httpHandler.NewJoinRoomHandler(roomCoordinator),
		"join-by-invite":  httpHandler.NewJoinByInviteHandler(roomCoordinator),
		"leave-room":      httpHandler.NewLeaveRoomHandler(roomCoordinator),
		"report-move":     httpHandler.NewReportMoveHandler(roomCoordinator),
		"report-outcome":  httpHandler.NewReportOutcomeHandler(roomCoordinator),
		"list-open-rooms": httpHandler.NewListOpenRoomsHandler(roomCoordinator),
	}
}

func SetupWSHandlers(config config.Config, roomCoordinator *coordinator.Coordinator, roomWatcher *watcher.Watcher, lobby wsHandler.LobbyHub) map[string]interface{} {
	bridgeConfig := bridge.Config{ReadyTimeout: config.Bridge.ReadyTimeout}

	return map[string]interface{}{
		"room-bridge": wsHandler.NewRoomBridgeHandler(roomCoordinator, roomWatcher, bridgeConfig),
		"open-rooms":  wsHandler.NewOpenRoomsHandler(lobby),
	}
}
