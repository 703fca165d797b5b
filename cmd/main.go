package main

import (
	"github.com/baoduongg/game-library/config"
	"github.com/baoduongg/game-library/internal/bootstrap"
	_ "github.com/baoduongg/game-library/log"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	defer zap.L().Sync()
	zap.L().Info("app starting...", zap.String("app name", appConfig.App.Name))

	app := bootstrap.NewApp(appConfig)

	app.Start()
}
