package browser

import (
	"context"
	"errors"
	"time"

	"github.com/playwright-community/playwright-go"
)

func (b *PlaywrightBrowser) WaitFor(ctx context.Context, loc Locator, state ElementState, timeout time.Duration) (bool, error) {
	page := b.getPage()
	if page == nil {
		return false, ErrNotLaunched
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	selector, err := playwrightSelector(loc)
	if err != nil {
		return false, err
	}

	timeout = boundedTimeout(timeout, b.cfg.ActionTimeout)

	waitState := playwright.WaitForSelectorStateAttached
	if state == StateVisible {
		waitState = playwright.WaitForSelectorStateVisible
	}

	err = page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   waitState,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err == nil {
		return true, nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return false, nil
	}
	return false, err
}

// boundedTimeout заменяет нулевой или отрицательный таймаут на fallback:
// для playwright ноль означает ожидание без ограничения, а для chromedp
// мгновенное истечение.
func boundedTimeout(timeout, fallback time.Duration) time.Duration {
	if timeout > 0 {
		return timeout
	}
	if fallback > 0 {
		return fallback
	}
	return 10 * time.Second
}
