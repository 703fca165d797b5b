// Package log replaces the global zap logger. Import it for side effects
// before anything logs.
package log

import (
	"os"

	"go.uber.org/zap"
)

func init() {
	var (
		logger *zap.Logger
		err    error
	)
	if os.Getenv("APP_ENV") == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}
