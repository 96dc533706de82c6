package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"reviewAnalyzer/internal/app"
	"reviewAnalyzer/internal/config"
	"reviewAnalyzer/internal/logger"
	"reviewAnalyzer/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	a, err := app.Build(cfg, log)
	if err != nil {
		log.Fatal("Ошибка инициализации", zap.Error(err))
	}
	defer a.Close(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runs server.RunStore
	if a.Runs != nil {
		runs = a.Runs
	}

	if err := server.New(cfg, log, a.Pipeline, runs, a.Metrics).Run(ctx); err != nil {
		log.Error("Ошибка сервера", zap.Error(err))
	}
}
