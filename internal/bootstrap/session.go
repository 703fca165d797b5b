package bootstrap

import (
	"context"

	"github.com/baoduongg/game-library/config"
	"github.com/baoduongg/game-library/domain"
	"github.com/baoduongg/game-library/internal/initializer"
)

type SessionManager interface {
	Resolve(ctx context.Context, token string) (domain.SessionContext, error)
	Close() error
}

func InitSessionRedis(config config.Config) SessionManager {
	return initializer.InitSessionRedis(config)
}
