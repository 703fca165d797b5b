package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/baoduongg/game-library/domain"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	Brokers      []string
	Topic        string
	ClientID     string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

func NewDefaultConfig(brokers []string) KafkaConfig {
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}
	return KafkaConfig{
		Brokers:      brokers,
		Topic:        "room-events",
		ClientID:     "room-service",
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher writes room lifecycle events to Kafka, keyed by room id so
// the events of one room stay ordered within a partition.
type EventPublisher struct {
	writer messageWriter
	topic  string
}

func NewEventPublisher(config KafkaConfig) *EventPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Topic:                  config.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           config.BatchTimeout,
		WriteTimeout:           config.WriteTimeout,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Transport:              &kafka.Transport{ClientID: config.ClientID},
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				zap.L().Error("Failed to deliver room events to Kafka",
					zap.Int("count", len(messages)), zap.Error(err))
			}
		},
	}

	zap.L().Info("Kafka publisher initialized",
		zap.Strings("brokers", config.Brokers), zap.String("topic", config.Topic))
	return &EventPublisher{writer: writer, topic: config.Topic}
}

func newEventPublisherWithWriter(writer messageWriter, topic string) *EventPublisher {
	return &EventPublisher{writer: writer, topic: topic}
}

func (p *EventPublisher) PublishRoomEvent(ctx context.Context, event domain.RoomEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal room event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.RoomID),
		Value: payload,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "game_slug", Value: []byte(event.GameSlug)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write %s event to %s: %w", event.Type, p.topic, err)
	}
	return nil
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. It stands in when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishRoomEvent(context.Context, domain.RoomEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
