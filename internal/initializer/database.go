package initializer

import (
	"fmt"

	"github.com/baoduongg/game-library/config"
	"github.com/baoduongg/game-library/infra/postgres"

	"go.uber.org/zap"
)

func PostgresDSN(appConfig config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		appConfig.Postgres.Host,
		appConfig.Postgres.Port,
		appConfig.Postgres.User,
		appConfig.Postgres.Password,
		appConfig.Postgres.DB,
		appConfig.Postgres.SSLMode,
	)
}

func InitDatabase(appConfig config.Config) *postgres.Repository {
	repo, err := postgres.NewRepository(PostgresDSN(appConfig))
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	return repo
}
