package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// InitLogger builds the process logger and installs it as the zap global, so
// packages can log through zap.L() without plumbing a logger everywhere.
func InitLogger(logLevel string) {
	cfg := zap.NewProductionConfig()

	switch logLevel {
	case "debug":
		cfg.Level.SetLevel(zap.DebugLevel)
	case "info":
		cfg.Level.SetLevel(zap.InfoLevel)
	case "warn":
		cfg.Level.SetLevel(zap.WarnLevel)
	case "error":
		cfg.Level.SetLevel(zap.ErrorLevel)
	default:
		cfg.Level.SetLevel(zap.InfoLevel)
	}

	lgr, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("build logger: %w", err))
	}

	zap.ReplaceGlobals(lgr)
}
