package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/playwright-community/playwright-go"
)

// New выбирает движок по cfg.Engine.
func New(cfg Config) (Browser, error) {
	switch cfg.Engine {
	case "", "playwright":
		return NewPlaywright(cfg), nil
	case "chromedp":
		return NewChromedp(cfg), nil
	default:
		return nil, fmt.Errorf("неизвестный движок браузера: %s", cfg.Engine)
	}
}

func withDefaults(cfg Config) Config {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.NavigateTimeout == 0 {
		cfg.NavigateTimeout = 60 * time.Second // Navigate обычно дольше
	}
	if cfg.ActionTimeout == 0 {
		cfg.ActionTimeout = 10 * time.Second
	}
	return cfg
}

func NewPlaywright(cfg Config) *PlaywrightBrowser {
	return &PlaywrightBrowser{
		cfg: withDefaults(cfg),
	}
}

// getPage безопасно возвращает текущую страницу с read lock
func (b *PlaywrightBrowser) getPage() playwright.Page {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.page
}

func (b *PlaywrightBrowser) getBrowserArgs() []string {
	args := []string{"--no-sandbox"}
	if b.cfg.Kind == "chromium" {
		args = append(args, "--disable-blink-features=AutomationControlled")
	}
	return args
}

func (b *PlaywrightBrowser) getEnvMap() map[string]string {
	if b.cfg.Display != "" {
		return map[string]string{
			"DISPLAY": b.cfg.Display,
		}
	}
	return nil
}

// applyBrowsersPath передает драйверу каталог с браузерами. Драйвер playwright
// запускается дочерним процессом и читает его из окружения.
func (b *PlaywrightBrowser) applyBrowsersPath() error {
	if b.cfg.BrowsersPath == "" {
		return nil
	}
	return os.Setenv("PLAYWRIGHT_BROWSERS_PATH", b.cfg.BrowsersPath)
}

func (b *PlaywrightBrowser) browserType(pw *playwright.Playwright) playwright.BrowserType {
	switch b.cfg.Kind {
	case "firefox":
		return pw.Firefox
	case "webkit":
		return pw.WebKit
	default:
		return pw.Chromium
	}
}

func (b *PlaywrightBrowser) Launch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := b.applyBrowsersPath(); err != nil {
		return fmt.Errorf("ошибка установки PLAYWRIGHT_BROWSERS_PATH: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("ошибка запуска playwright: %w", err)
	}

	b.mu.Lock()
	b.pw = pw
	b.mu.Unlock()

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.cfg.Headless),
		Args:     b.getBrowserArgs(),
	}
	if env := b.getEnvMap(); env != nil {
		opts.Env = env
	}

	browser, err := b.browserType(pw).Launch(opts)
	if err != nil {
		return fmt.Errorf("ошибка запуска браузера %s: %w", b.cfg.Kind, err)
	}

	ctxOpts := playwright.BrowserNewContextOptions{}
	if b.cfg.UserAgent != "" {
		ctxOpts.UserAgent = playwright.String(b.cfg.UserAgent)
	}

	browserContext, err := browser.NewContext(ctxOpts)
	if err != nil {
		return err
	}

	page, err := browserContext.NewPage()
	if err != nil {
		return err
	}
	page.SetDefaultTimeout(float64(b.cfg.Timeout.Milliseconds()))

	b.mu.Lock()
	b.browser = browser
	b.context = browserContext
	b.page = page
	b.mu.Unlock()

	return nil
}

func (b *PlaywrightBrowser) Navigate(ctx context.Context, url string) error {
	page := b.getPage()
	if page == nil {
		return ErrNotLaunched
	}

	navCtx, cancel := context.WithTimeout(ctx, b.cfg.NavigateTimeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
			Timeout:   playwright.Float(float64(b.cfg.NavigateTimeout.Milliseconds())),
		})
		errChan <- err
	}()

	select {
	case <-navCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("navigate timeout after %v", b.cfg.NavigateTimeout)
	case err := <-errChan:
		return err
	}
}

func (b *PlaywrightBrowser) Click(ctx context.Context, loc Locator) error {
	page := b.getPage()
	if page == nil {
		return ErrNotLaunched
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	selector, err := playwrightSelector(loc)
	if err != nil {
		return err
	}

	return page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(b.cfg.ActionTimeout.Milliseconds())),
	})
}

func (b *PlaywrightBrowser) Content(ctx context.Context) (string, error) {
	page := b.getPage()
	if page == nil {
		return "", ErrNotLaunched
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, err := page.Content()
	if err != nil {
		return "", err
	}
	return content, nil
}

// Close освобождает все ресурсы и допускает повторный вызов.
func (b *PlaywrightBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	if b.context != nil {
		if err := b.context.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		b.context = nil
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		b.browser = nil
	}
	if b.pw != nil {
		if err := b.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
		b.pw = nil
	}
	b.page = nil
	return firstErr
}
