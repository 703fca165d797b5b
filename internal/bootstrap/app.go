package bootstrap

import (
	"context"
	"os"
	"time"

	"github.com/baoduongg/game-library/config"
	"github.com/baoduongg/game-library/internal/api/ws/hub"
	"github.com/baoduongg/game-library/internal/coordinator"
	"github.com/baoduongg/game-library/internal/initializer"
	"github.com/baoduongg/game-library/internal/server"
	"github.com/baoduongg/game-library/internal/watcher"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config         config.Config
	store          RoomStore
	feed           ChangeFeed
	closeFeed      closer
	sessionManager SessionManager
	events         initializer.EventPublisher
	coordinator    *coordinator.Coordinator
	watcher        *watcher.Watcher
	lobby          *hub.LobbyHub
	fiberApp       *fiber.App
	httpHandlers   map[string]interface{}
	wsHandlers     map[string]interface{}

	ctx    context.Context
	cancel context.CancelFunc
}

func NewApp(config config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
	app.initDependencies()
	return app
}

func (a *App) initDependencies() {
	a.store, a.feed, a.closeFeed = InitStore(a.config)
	a.sessionManager = InitSessionRedis(a.config)
	a.events = initializer.InitMessaging(a.config)

	a.coordinator = coordinator.New(a.store, a.feed, a.events, coordinator.Config{
		PublicBaseURL:        a.config.Server.PublicBaseURL,
		RetryAttempts:        a.config.Coordinator.RetryAttempts,
		RetryInitialInterval: a.config.Coordinator.RetryInitialInterval,
	})
	a.watcher = watcher.New(a.store, a.feed)
	a.lobby = initializer.InitLobbyHub(a.ctx, a.watcher)

	a.httpHandlers = SetupHTTPHandlers(a.coordinator)
	a.wsHandlers = SetupWSHandlers(a.config, a.coordinator, a.watcher, a.lobby)
	a.fiberApp = SetupServer(a.config, a.sessionManager, a.httpHandlers, a.wsHandlers)
}

func (a *App) Start() {
	go func() {
		if err := server.Start(a.fiberApp, a.config.Server.Host, a.config.Server.Port); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", a.config.Server.Port))

	wait := gfshutdown.GracefulShutdown(a.ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"room-service": a.shutdown,
	})

	exitCode := <-wait
	zap.L().Info("Application exited", zap.Int("code", exitCode))
	zap.L().Sync()
	os.Exit(exitCode)
}

// shutdown stops accepting traffic first, then closes backends in reverse
// dependency order.
func (a *App) shutdown(ctx context.Context) error {
	zap.L().Info("Graceful shutdown initiated...")

	if err := a.fiberApp.ShutdownWithContext(ctx); err != nil {
		zap.L().Error("Failed to shut down HTTP server", zap.Error(err))
	}
	a.cancel()

	if err := a.events.Close(); err != nil {
		zap.L().Error("Failed to close Kafka publisher", zap.Error(err))
	}
	if err := a.sessionManager.Close(); err != nil {
		zap.L().Error("Failed to close session Redis", zap.Error(err))
	}
	if err := a.closeFeed(); err != nil {
		zap.L().Error("Failed to close room Redis", zap.Error(err))
	}
	return a.store.Close()
}
