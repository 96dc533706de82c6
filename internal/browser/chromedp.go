package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromedpBrowser - второй движок: управляет Chrome напрямую по CDP,
// без драйвера playwright.
type ChromedpBrowser struct {
	mu          sync.Mutex
	cfg         Config
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

func NewChromedp(cfg Config) *ChromedpBrowser {
	return &ChromedpBrowser{cfg: withDefaults(cfg)}
}

func (b *ChromedpBrowser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)
	if b.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(b.cfg.UserAgent))
	}
	if b.cfg.Display != "" {
		opts = append(opts, chromedp.Env("DISPLAY="+b.cfg.Display))
	}
	return opts
}

func (b *ChromedpBrowser) Launch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), b.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Первый Run поднимает процесс браузера.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return fmt.Errorf("ошибка запуска chrome: %w", err)
	}

	b.mu.Lock()
	b.allocCancel = allocCancel
	b.tabCtx = tabCtx
	b.tabCancel = tabCancel
	b.mu.Unlock()

	return nil
}

func (b *ChromedpBrowser) tab() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tabCtx == nil {
		return nil, ErrNotLaunched
	}
	return b.tabCtx, nil
}

// run выполняет действия во вкладке, ограничивая их таймаутом и
// отменой вызывающего контекста.
func (b *ChromedpBrowser) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	tabCtx, err := b.tab()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err = chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func queryOption(loc Locator) chromedp.QueryOption {
	if loc.Strategy == StrategyXPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func (b *ChromedpBrowser) Navigate(ctx context.Context, url string) error {
	err := b.run(ctx, b.cfg.NavigateTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("navigate timeout after %v", b.cfg.NavigateTimeout)
	}
	return err
}

func (b *ChromedpBrowser) WaitFor(ctx context.Context, loc Locator, state ElementState, timeout time.Duration) (bool, error) {
	if err := ValidateLocator(loc); err != nil {
		return false, fmt.Errorf("невалидный селектор: %w", err)
	}

	expr := strings.TrimSpace(loc.Expr)
	var action chromedp.Action = chromedp.WaitReady(expr, queryOption(loc))
	if state == StateVisible {
		action = chromedp.WaitVisible(expr, queryOption(loc))
	}

	err := b.run(ctx, boundedTimeout(timeout, b.cfg.ActionTimeout), action)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, context.DeadlineExceeded):
		return false, nil
	default:
		return false, err
	}
}

func (b *ChromedpBrowser) Click(ctx context.Context, loc Locator) error {
	if err := ValidateLocator(loc); err != nil {
		return fmt.Errorf("невалидный селектор: %w", err)
	}
	return b.run(ctx, b.cfg.ActionTimeout,
		chromedp.Click(strings.TrimSpace(loc.Expr), queryOption(loc), chromedp.NodeVisible),
	)
}

func (b *ChromedpBrowser) ScrollIntoView(ctx context.Context, loc Locator) error {
	if err := ValidateLocator(loc); err != nil {
		return fmt.Errorf("невалидный селектор: %w", err)
	}
	return b.run(ctx, b.cfg.ActionTimeout,
		chromedp.ScrollIntoView(strings.TrimSpace(loc.Expr), queryOption(loc)),
	)
}

func (b *ChromedpBrowser) ScriptClick(ctx context.Context, loc Locator) error {
	if err := ValidateLocator(loc); err != nil {
		return fmt.Errorf("невалидный селектор: %w", err)
	}

	var found bool
	if err := b.run(ctx, b.cfg.ActionTimeout, chromedp.Evaluate(scriptClickJS(loc), &found)); err != nil {
		return fmt.Errorf("ошибка клика скриптом: %w", err)
	}
	if !found {
		return fmt.Errorf("элемент %s не найден", loc)
	}
	return nil
}

func (b *ChromedpBrowser) Content(ctx context.Context) (string, error) {
	var html string
	if err := b.run(ctx, b.cfg.Timeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (b *ChromedpBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.tabCtx != nil {
		err = chromedp.Cancel(b.tabCtx)
		b.tabCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	b.tabCtx = nil
	b.tabCancel = nil
	b.allocCancel = nil

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
