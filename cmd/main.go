package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"reviewAnalyzer/internal/app"
	"reviewAnalyzer/internal/cli"
	"reviewAnalyzer/internal/cli/commands"
	"reviewAnalyzer/internal/config"
	"reviewAnalyzer/internal/logger"
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

	// Ctrl+C обрабатывает сама консоль: он прерывает текущий анализ, а не программу.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	// Интерфейсное значение должно остаться nil, если архив отключен.
	var archive commands.Archive
	if a.Runs != nil {
		archive = a.Runs
	}

	console := cli.New(cli.Deps{
		Analyzer:   a.Pipeline,
		Archive:    archive,
		Summarizer: a.LLM,
		Clean:      a.Cleaner.Clean,
		Model:      cfg.LLM.Model,
	}, log)
	console.Run(ctx)
}
