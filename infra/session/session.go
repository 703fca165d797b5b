package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/baoduongg/game-library/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SessionData is the record the identity provider stores under each session
// token.
type SessionData struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Username  string    `json:"username"`
	Device    string    `json:"device,omitempty"`
	Ip        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const lookupTimeout = 3 * time.Second

// SessionManager resolves session tokens issued elsewhere. It never writes.
type SessionManager struct {
	client *redis.Client
	group  singleflight.Group
}

func NewSessionManager(redisAddr string, password string, db int) (*SessionManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to session redis: %w", err)
	}
	zap.L().Info("Connected to session Redis successfully", zap.String("addr", redisAddr))
	return &SessionManager{client: client}, nil
}

func NewSessionManagerWithClient(client *redis.Client) *SessionManager {
	return &SessionManager{client: client}
}

func (sm *SessionManager) GetRedisClient() *redis.Client {
	return sm.client
}

func (sm *SessionManager) Close() error {
	return sm.client.Close()
}

func (sm *SessionManager) GetSession(ctx context.Context, token string) (*SessionData, error) {
	raw, err := sm.client.Get(ctx, token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: session expired or unknown", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%w: session lookup: %w", domain.ErrStoreUnavailable, err)
	}

	var data SessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed session: %v", domain.ErrUnauthenticated, err)
	}
	return &data, nil
}

// Resolve maps a session token to the caller identity. Concurrent lookups of
// the same token share one Redis round trip.
func (sm *SessionManager) Resolve(ctx context.Context, token string) (domain.SessionContext, error) {
	if token == "" {
		return domain.SessionContext{}, domain.ErrUnauthenticated
	}

	// The lookup is shared, so it must not end with the caller that started it.
	ch := sm.group.DoChan(token, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		return sm.GetSession(lookupCtx, token)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return domain.SessionContext{}, ctx.Err()
	}
	if res.Err != nil {
		return domain.SessionContext{}, res.Err
	}

	data := res.Val.(*SessionData)
	identity := data.UserID
	if identity == "" {
		identity = data.Email
	}
	if identity == "" {
		return domain.SessionContext{}, fmt.Errorf("%w: session has no identity", domain.ErrUnauthenticated)
	}

	name := data.Username
	if name == "" {
		name = data.Email
	}
	return domain.SessionContext{Identity: identity, DisplayName: name}, nil
}
