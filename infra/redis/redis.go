package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/baoduongg/game-library/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisManager carries room change notifications over Redis Pub/Sub so every
// service instance wakes up its watchers after a commit.
type RedisManager struct {
	client *redis.Client
}

func NewRedisManager(redisAddr string, password string, db int) (*RedisManager, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to room redis: %w", err)
	}

	zap.L().Info("Connected to room Redis successfully", zap.String("addr", redisAddr))
	return &RedisManager{client: rdb}, nil
}

// NewRedisManagerWithClient wraps an existing client.
func NewRedisManagerWithClient(client *redis.Client) *RedisManager {
	return &RedisManager{client: client}
}

func (rm *RedisManager) Close() error {
	return rm.client.Close()
}

// Publish announces event on channel. Subscribers only use it as a wake-up;
// the payload is there for operators tailing the channel.
func (rm *RedisManager) Publish(ctx context.Context, channel string, event domain.RoomEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal room event: %w", err)
	}

	if err := rm.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis channel %s: %w", channel, err)
	}
	return nil
}

// Subscribe returns once Redis has confirmed the subscription, so a publish
// that happens after Subscribe returns is never missed.
func (rm *RedisManager) Subscribe(ctx context.Context, channel string) (domain.Subscription, error) {
	pubsub := rm.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("%w: subscribe %s: %w", domain.ErrStoreUnavailable, channel, err)
	}

	sub := &subscription{
		pubsub:  pubsub,
		channel: channel,
		ch:      make(chan struct{}, 1),
	}
	go sub.forward()

	zap.L().Debug("Subscribed to Redis channel", zap.String("channel", channel))
	return sub, nil
}

type subscription struct {
	pubsub  *redis.PubSub
	channel string
	ch      chan struct{}
	once    sync.Once
}

// forward turns every message into a wake-up. go-redis resubscribes on its
// own after a dropped connection; commits published meanwhile are lost, so
// the renewed subscription is a wake-up too and the watcher re-reads.
func (s *subscription) forward() {
	for msg := range s.pubsub.ChannelWithSubscriptions() {
		if sub, ok := msg.(*redis.Subscription); ok {
			if sub.Kind != "subscribe" {
				continue
			}
			zap.L().Info("Resubscribed to Redis channel", zap.String("channel", s.channel))
		}
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
	zap.L().Debug("Unsubscribed from Redis channel", zap.String("channel", s.channel))
}

func (s *subscription) Notifications() <-chan struct{} {
	return s.ch
}

func (s *subscription) Close() error {
	var err error
	s.once.Do(func() { err = s.pubsub.Close() })
	return err
}
