package scraper

import (
	"time"

	"reviewAnalyzer/internal/browser"
	"reviewAnalyzer/internal/config"
)

// DefaultPageCap - жесткий предел страниц за один запуск. Аргумент pages
// вызывающей стороны на него не влияет.
const DefaultPageCap = 10

type Config struct {
	PageCap int

	PopupTimeout         time.Duration
	ReviewsButtonTimeout time.Duration
	ReviewsTimeout       time.Duration
	NextTimeout          time.Duration

	ListingPause  time.Duration
	SettlePause   time.Duration
	ScrollPause   time.Duration
	PageLoadPause time.Duration

	PopupClose    browser.Locator
	ReviewsButton browser.Locator
	ReviewBlock   browser.Locator
	NextControl   browser.Locator
}

// DefaultConfig повторяет поведение страницы отзывов по умолчанию.
func DefaultConfig() Config {
	return Config{
		PageCap:              DefaultPageCap,
		PopupTimeout:         5 * time.Second,
		ReviewsButtonTimeout: 5 * time.Second,
		ReviewsTimeout:       10 * time.Second,
		NextTimeout:          5 * time.Second,
		ListingPause:         3 * time.Second,
		SettlePause:          2 * time.Second,
		ScrollPause:          time.Second,
		PageLoadPause:        3 * time.Second,
		PopupClose:           browser.XPath("//button[contains(text(),'✕')]"),
		ReviewsButton:        browser.XPath("//div[contains(@class, '_23J90q')]"),
		ReviewBlock:          browser.CSS("div.ZmyHeo"),
		NextControl:          browser.XPath("//span[text()='Next']"),
	}
}

// ConfigFrom переносит настройки навигатора из общей конфигурации.
func ConfigFrom(cfg config.Scraper) Config {
	return Config{
		PageCap:              cfg.PageCap,
		PopupTimeout:         cfg.PopupTimeout,
		ReviewsButtonTimeout: cfg.ReviewsButtonTimeout,
		ReviewsTimeout:       cfg.ReviewsTimeout,
		NextTimeout:          cfg.NextTimeout,
		ListingPause:         cfg.ListingPause,
		SettlePause:          cfg.SettlePause,
		ScrollPause:          cfg.ScrollPause,
		PageLoadPause:        cfg.PageLoadPause,
		PopupClose:           browser.XPath(cfg.PopupCloseXPath),
		ReviewsButton:        browser.XPath(cfg.ReviewsButtonXPath),
		ReviewBlock:          browser.CSS(cfg.ReviewBodySelector),
		NextControl:          browser.XPath(cfg.NextXPath),
	}
}
