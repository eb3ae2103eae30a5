package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Nikobrola/impasta-test/internal/config"
	"github.com/Nikobrola/impasta-test/internal/engine"
	"github.com/Nikobrola/impasta-test/internal/httpapi"
	"github.com/Nikobrola/impasta-test/internal/hub"
	"github.com/Nikobrola/impasta-test/internal/logger"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.InitConfig()
	if err != nil {
		panic(err)
	}

	logger.InitLogger(cfg.LogLevel)

	gameCfg := engine.DefaultConfig()
	gameCfg.AnswerTimerSec = cfg.AnswerTimerSec
	gameCfg.DiscussTimerSec = cfg.DiscussTimerSec
	gameCfg.VoteTimerSec = cfg.VoteTimerSec

	ctx := context.Background()
	h := hub.NewHub(ctx)

	// Each room gets its own seeded random source so games are independent.
	deps := func() engine.Deps { return engine.NewDeps(time.Now().UnixNano()) }

	handler := httpapi.SetupRoutes(h, gameCfg, deps)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		zap.L().Fatal("server exited", zap.Error(err))
	}
}
