package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

func (b *PlaywrightBrowser) ScrollIntoView(ctx context.Context, loc Locator) error {
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

	element := page.Locator(selector).First()
	err = element.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
		Timeout: playwright.Float(float64(b.cfg.ActionTimeout.Milliseconds())),
	})
	if err == nil {
		return nil
	}

	// Если ScrollIntoViewIfNeeded не сработал, прокручиваем скриптом
	if _, evalErr := element.Evaluate(`el => el.scrollIntoView({behavior: 'auto', block: 'center'})`, nil); evalErr != nil {
		return fmt.Errorf("ошибка прокрутки к элементу: %w", evalErr)
	}
	return nil
}

// ScriptClick кликает через JavaScript: обычный клик на странице с отзывами
// часто перехватывает оверлей.
func (b *PlaywrightBrowser) ScriptClick(ctx context.Context, loc Locator) error {
	page := b.getPage()
	if page == nil {
		return ErrNotLaunched
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := ValidateLocator(loc); err != nil {
		return fmt.Errorf("невалидный селектор: %w", err)
	}

	result, err := page.Evaluate(scriptClickJS(loc))
	if err != nil {
		return fmt.Errorf("ошибка клика скриптом: %w", err)
	}
	if found, ok := result.(bool); ok && !found {
		return fmt.Errorf("элемент %s не найден", loc)
	}
	return nil
}
