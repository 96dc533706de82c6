package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

var ErrNotLaunched = errors.New("браузер не запущен")

// Browser - минимальный набор операций, который нужен навигатору по отзывам.
// WaitFor при истечении таймаута возвращает (false, nil): отсутствие элемента
// для навигатора является штатной ситуацией, а не ошибкой.
type Browser interface {
	Launch(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, loc Locator, state ElementState, timeout time.Duration) (bool, error)
	Click(ctx context.Context, loc Locator) error
	ScrollIntoView(ctx context.Context, loc Locator) error
	ScriptClick(ctx context.Context, loc Locator) error
	Content(ctx context.Context) (string, error)
	Close() error
}

type ElementState int

const (
	// StatePresent - элемент есть в DOM.
	StatePresent ElementState = iota
	// StateVisible - элемент виден и по нему можно кликнуть.
	StateVisible
)

func (s ElementState) String() string {
	switch s {
	case StateVisible:
		return "visible"
	default:
		return "present"
	}
}

type Config struct {
	Engine          string
	Kind            string
	Headless        bool
	BrowsersPath    string
	Display         string
	UserAgent       string
	Timeout         time.Duration
	NavigateTimeout time.Duration
	ActionTimeout   time.Duration
}

type PlaywrightBrowser struct {
	mu      sync.RWMutex
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	cfg     Config
}
