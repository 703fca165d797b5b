package bootstrap

import (
	"context"

	"github.com/baoduongg/game-library/config"
	"github.com/baoduongg/game-library/domain"
	"github.com/baoduongg/game-library/infra/memory"
	"github.com/baoduongg/game-library/internal/coordinator"
	"github.com/baoduongg/game-library/internal/initializer"

	"go.uber.org/zap"
)

type RoomStore interface {
	coordinator.RoomRepository
	Close() error
}

type ChangeFeed interface {
	Publish(ctx context.Context, channel string, event domain.RoomEvent) error
	Subscribe(ctx context.Context, channel string) (domain.Subscription, error)
}

type closer func() error

// InitStore pairs the room store with the change feed that announces its
// commits: PostgreSQL with Redis Pub/Sub, or both in process.
func InitStore(appConfig config.Config) (RoomStore, ChangeFeed, closer) {
	switch appConfig.Store.Driver {
	case "memory":
		zap.L().Warn("Using the in-memory room store, rooms are lost on restart and not shared between instances")
		return memory.NewStore(), memory.NewFeed(), func() error { return nil }
	case "postgres", "":
		roomRedis := initializer.InitRoomRedis(appConfig)
		return initializer.InitDatabase(appConfig), roomRedis, roomRedis.Close
	default:
		zap.L().Fatal("Unknown store driver", zap.String("driver", appConfig.Store.Driver))
		return nil, nil, nil
	}
}
