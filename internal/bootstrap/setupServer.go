package bootstrap

import (
	"github.com/baoduongg/game-library/config"
	"github.com/baoduongg/game-library/domain"
	httpHandler "github.com/baoduongg/game-library/internal/api/http/handler"
	wsHandler "github.com/baoduongg/game-library/internal/api/ws/handler"
	"github.com/baoduongg/game-library/internal/handler"
	"github.com/baoduongg/game-library/internal/middleware"
	"github.com/baoduongg/game-library/internal/server"

	"github.com/gofiber/fiber/v2"
)

func SetupServer(config config.Config, sessions SessionManager, httpHandlers map[string]interface{}, wsHandlers map[string]interface{}) *fiber.App {
	serverConfig := server.Config{
		Port:         config.Server.Port,
		AllowOrigins: config.Server.AllowOrigins,
		IdleTimeout:  config.Server.IdleTimeout,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}

	app := server.NewFiberApp(serverConfig)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerMinute: config.RateLimit.RequestsPerMinute,
		Burst:             config.RateLimit.Burst,
		IdleTTL:           config.RateLimit.IdleTTL,
	})
	app.Use(middleware.SessionLoader(sessions))

	createRoomHandler := httpHandlers["create-room"].(*httpHandler.CreateRoomHandler)
	getRoomHandler := httpHandlers["get-room"].(*httpHandler.GetRoomHandler)
	joinRoomHandler := httpHandlers["join-room"].(*httpHandler.JoinRoomHandler)
	joinByInviteHandler := httpHandlers["join-by-invite"].(*httpHandler.JoinByInviteHandler)
	leaveRoomHandler := httpHandlers["leave-room"].(*httpHandler.LeaveRoomHandler)
	reportMoveHandler := httpHandlers["report-move"].(*httpHandler.ReportMoveHandler)
	reportOutcomeHandler := httpHandlers["report-outcome"].(*httpHandler.ReportOutcomeHandler)
	listOpenRoomsHandler := httpHandlers["list-open-rooms"].(*httpHandler.ListOpenRoomsHandler)

	rooms := app.Group("/rooms", rateLimiter.Middleware())
	rooms.Post("/", handler.HandleWithFiber[httpHandler.CreateRoomRequest, httpHandler.CreateRoomResponse](createRoomHandler))
	rooms.Get("/:room_id", handler.HandleWithFiber[httpHandler.GetRoomRequest, domain.Room](getRoomHandler))
	rooms.Post("/:room_id/join", handler.HandleWithFiber[httpHandler.JoinRoomRequest, domain.Room](joinRoomHandler))
	rooms.Post("/:room_id/leave", handler.HandleWithFiber[httpHandler.LeaveRoomRequest, httpHandler.LeaveRoomResponse](leaveRoomHandler))
	rooms.Post("/:room_id/move", handler.HandleWithFiber[httpHandler.ReportMoveRequest, httpHandler.ReportMoveResponse](reportMoveHandler))
	rooms.Post("/:room_id/outcome", handler.HandleWithFiber[httpHandler.ReportOutcomeRequest, httpHandler.ReportOutcomeResponse](reportOutcomeHandler))

	app.Get("/games/:game_slug/rooms", rateLimiter.Middleware(),
		handler.HandleWithFiber[httpHandler.ListOpenRoomsRequest, httpHandler.ListOpenRoomsResponse](listOpenRoomsHandler))
	app.Get("/play/:game_slug", rateLimiter.Middleware(),
		handler.HandleWithFiber[httpHandler.JoinByInviteRequest, domain.Room](joinByInviteHandler))

	roomBridgeHandler := wsHandlers["room-bridge"].(*wsHandler.RoomBridgeHandler)
	openRoomsHandler := wsHandlers["open-rooms"].(*wsHandler.OpenRoomsHandler)

	wsRoute := app.Group("/ws")
	wsRoute.Get("/rooms/:room_id", handler.HandleWithFiberWS[wsHandler.RoomBridgeRequest](roomBridgeHandler))
	wsRoute.Get("/games/:game_slug/rooms", handler.HandleWithFiberWS[wsHandler.OpenRoomsRequest](openRoomsHandler))

	return app
}
