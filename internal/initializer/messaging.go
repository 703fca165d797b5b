package initializer

import (
	"context"

	"github.com/baoduongg/game-library/config"
	"github.com/baoduongg/game-library/domain"
	"github.com/baoduongg/game-library/infra/kafka"

	"go.uber.org/zap"
)

type EventPublisher interface {
	PublishRoomEvent(ctx context.Context, event domain.RoomEvent) error
	Close() error
}

func InitMessaging(appConfig config.Config) EventPublisher {
	if !appConfig.Kafka.Enabled {
		zap.L().Info("Kafka disabled, room events will not be published")
		return kafka.NoopPublisher{}
	}

	kafkaConfig := kafka.NewDefaultConfig(appConfig.Kafka.Brokers)
	if appConfig.Kafka.Topic != "" {
		kafkaConfig.Topic = appConfig.Kafka.Topic
	}
	kafkaConfig.ClientID = appConfig.App.Name

	return kafka.NewEventPublisher(kafkaConfig)
}
