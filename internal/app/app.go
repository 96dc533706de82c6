// Package app собирает компоненты анализатора из конфигурации. Его используют
// и консоль, и HTTP-сервер.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"reviewAnalyzer/internal/browser"
	"reviewAnalyzer/internal/cleaner"
	"reviewAnalyzer/internal/config"
	"reviewAnalyzer/internal/database"
	"reviewAnalyzer/internal/export"
	"reviewAnalyzer/internal/extractor"
	"reviewAnalyzer/internal/llm"
	"reviewAnalyzer/internal/logger"
	"reviewAnalyzer/internal/metrics"
	"reviewAnalyzer/internal/migrations"
	"reviewAnalyzer/internal/pipeline"
	"reviewAnalyzer/internal/sanitizer"
	"reviewAnalyzer/internal/scraper"
)

type App struct {
	Pipeline *pipeline.Pipeline
	Cleaner  *cleaner.Cleaner
	LLM      *llm.Client
	Metrics  *metrics.Metrics

	// Runs равен nil, если DB_HOST не задан.
	Runs *database.RunRepository

	db *database.Database
}

func Build(cfg *config.Cfg, log *logger.Zap) (*App, error) {
	a := &App{Metrics: metrics.New()}

	var archive pipeline.Archive
	var llmLogger llm.Logger
	if cfg.Database.Enabled() {
		if err := migrations.Run(cfg, log); err != nil {
			return nil, err
		}
		db, err := database.New(cfg, log)
		if err != nil {
			return nil, err
		}
		a.db = db
		arch := database.NewArchive(db.DB)
		a.Runs = arch.Repository()
		archive = arch
		llmLogger = a.Runs
	} else {
		log.Info("DB_HOST не задан, архив запусков отключен")
	}

	cl, err := newCleaner(cfg.Cleaner)
	if err != nil {
		a.Close(log)
		return nil, err
	}
	a.Cleaner = cl

	ext, err := newExtractor(cfg.Scraper, log.Logger)
	if err != nil {
		a.Close(log)
		return nil, err
	}

	browserCfg := browser.Config{
		Engine:       cfg.Browser.Engine,
		Kind:         cfg.Browser.Kind,
		Headless:     cfg.Browser.Headless,
		BrowsersPath: cfg.Browser.BrowsersPath,
		Display:      cfg.Browser.Display,
		UserAgent:    cfg.Browser.UserAgent,
		Timeout:      cfg.Browser.Timeout,
	}
	nav := scraper.NewNavigator(
		scraper.ConfigFrom(cfg.Scraper),
		func() (browser.Browser, error) { return browser.New(browserCfg) },
		ext,
		log.Logger,
		scraper.WithMetrics(a.Metrics),
	)

	a.LLM = llm.NewClient(llm.Options{
		APIKey:            cfg.LLM.APIKey,
		Model:             cfg.LLM.Model,
		BaseURL:           cfg.LLM.BaseURL,
		MaxTokens:         cfg.LLM.MaxTokens,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		TokensPerHour:     cfg.LLM.TokensPerHour,
	}, llmLogger,
		llm.WithMetrics(a.Metrics),
		llm.WithZap(log.Logger),
		llm.WithRedactor(sanitizer.New().Sanitize),
	)
	if cfg.LLM.APIKey == "" {
		log.Warn("GEMINI_API_KEY не задан, сводка будет содержать ошибку")
	}

	a.Pipeline = pipeline.New(nav, a.Cleaner, a.LLM, export.NewExcel(cfg.Export.Path), archive, log.Logger)
	return a, nil
}

func (a *App) Close(log *logger.Zap) {
	if a.db != nil {
		a.db.Close(log)
	}
}

func newCleaner(cfg config.Cleaner) (*cleaner.Cleaner, error) {
	if cfg.StopwordsFile == "" {
		return cleaner.NewEnglish(), nil
	}
	words, err := cleaner.LoadStopwords(cfg.StopwordsFile)
	if err != nil {
		return nil, err
	}
	return cleaner.New(words), nil
}

func newExtractor(cfg config.Scraper, log *zap.Logger) (*extractor.Extractor, error) {
	body, err := extractor.ParseClassLocator(cfg.ReviewBodySelector, cfg.ReviewTextSelector)
	if err != nil {
		return nil, fmt.Errorf("SCRAPER_REVIEW_BODY: %w", err)
	}
	rating, err := extractor.ParseClassLocator(cfg.RatingSelector, "")
	if err != nil {
		return nil, fmt.Errorf("SCRAPER_RATING: %w", err)
	}
	title, err := extractor.ParseClassLocator(cfg.TitleSelector, "")
	if err != nil {
		return nil, fmt.Errorf("SCRAPER_TITLE: %w", err)
	}
	return extractor.New(body, rating, title, log), nil
}
