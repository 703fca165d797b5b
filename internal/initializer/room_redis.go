package initializer

import (
	"fmt"

	"github.com/baoduongg/game-library/config"
	"github.com/baoduongg/game-library/infra/redis"

	"go.uber.org/zap"
)

func InitRoomRedis(appConfig config.Config) *redis.RedisManager {
	address := fmt.Sprintf("%s:%s", appConfig.RoomRedis.Host, appConfig.RoomRedis.Port)

	redisManager, err := redis.NewRedisManager(address, appConfig.RoomRedis.Password, appConfig.RoomRedis.DB)
	if err != nil {
		zap.L().Fatal("Failed to connect to room Redis", zap.Error(err))
	}
	return redisManager
}
