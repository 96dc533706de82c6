package browser

import (
	"fmt"
	"strings"
)

type SelectorStrategy int

const (
	StrategyCSS SelectorStrategy = iota
	StrategyXPath
)

func (s SelectorStrategy) String() string {
	if s == StrategyXPath {
		return "xpath"
	}
	return "css"
}

// Locator описывает элемент страницы независимо от движка браузера.
type Locator struct {
	Strategy SelectorStrategy
	Expr     string
}

func CSS(expr string) Locator {
	return Locator{Strategy: StrategyCSS, Expr: expr}
}

func XPath(expr string) Locator {
	return Locator{Strategy: StrategyXPath, Expr: expr}
}

func (l Locator) String() string {
	return l.Strategy.String() + "=" + l.Expr
}

// ValidateLocator отсекает пустые выражения и URL, случайно попавшие в конфигурацию
// вместо селектора.
func ValidateLocator(loc Locator) error {
	expr := strings.TrimSpace(loc.Expr)
	if expr == "" {
		return fmt.Errorf("селектор не может быть пустым")
	}

	if strings.HasPrefix(expr, "http://") || strings.HasPrefix(expr, "https://") || strings.Contains(expr, "://") {
		return fmt.Errorf("селектор не может быть URL: %s", loc.Expr)
	}

	if loc.Strategy == StrategyXPath && !strings.HasPrefix(expr, "/") && !strings.HasPrefix(expr, "(") {
		return fmt.Errorf("xpath должен начинаться с '/' или '(': %s", loc.Expr)
	}

	return nil
}

// playwrightSelector переводит Locator в синтаксис селекторов Playwright.
func playwrightSelector(loc Locator) (string, error) {
	if err := ValidateLocator(loc); err != nil {
		return "", fmt.Errorf("невалидный селектор: %w", err)
	}

	expr := strings.TrimSpace(loc.Expr)
	if loc.Strategy == StrategyXPath {
		return "xpath=" + expr, nil
	}
	return expr, nil
}

// escapeJS экранирует выражение для подстановки в строковый литерал JavaScript.
func escapeJS(expr string) string {
	expr = strings.ReplaceAll(expr, `\`, `\\`)
	expr = strings.ReplaceAll(expr, "`", "\\`")
	expr = strings.ReplaceAll(expr, "$", `\$`)
	expr = strings.ReplaceAll(expr, "\n", `\n`)
	return expr
}

// scriptClickJS возвращает скрипт, который находит первый элемент по локатору
// и вызывает у него click(). Результат скрипта - найден ли элемент.
func scriptClickJS(loc Locator) string {
	expr := escapeJS(strings.TrimSpace(loc.Expr))
	if loc.Strategy == StrategyXPath {
		return "(() => { const el = document.evaluate(`" + expr +
			"`, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue; if (!el) return false; el.click(); return true; })()"
	}
	return "(() => { const el = document.querySelector(`" + expr + "`); if (!el) return false; el.click(); return true; })()"
}
