package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"reviewAnalyzer/internal/browser"
	"reviewAnalyzer/internal/metrics"
	"reviewAnalyzer/internal/models"
)

// BrowserFactory создает новую сессию браузера на каждый запуск.
type BrowserFactory func() (browser.Browser, error)

type PageExtractor interface {
	Extract(html string) (records []models.ReviewRecord, skipped int, err error)
}

type SleepFunc func(ctx context.Context, d time.Duration) error

// Navigator проходит по страницам отзывов товара и собирает записи.
type Navigator struct {
	cfg        Config
	newBrowser BrowserFactory
	extractor  PageExtractor
	metrics    *metrics.Metrics
	log        *zap.Logger
	sleep      SleepFunc
}

type Option func(*Navigator)

func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Navigator) { n.metrics = m }
}

func WithSleep(sleep SleepFunc) Option {
	return func(n *Navigator) { n.sleep = sleep }
}

func NewNavigator(cfg Config, newBrowser BrowserFactory, extractor PageExtractor, log *zap.Logger, opts ...Option) *Navigator {
	if cfg.PageCap <= 0 {
		cfg.PageCap = DefaultPageCap
	}
	if log == nil {
		log = zap.NewNop()
	}

	n := &Navigator{
		cfg:        cfg,
		newBrowser: newBrowser,
		extractor:  extractor,
		log:        log,
		sleep:      sleepCtx,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Scrape открывает страницу товара и собирает отзывы не более чем с PageCap страниц.
// Собранные записи возвращаются всегда, даже вместе с ошибкой.
// Ошибка возвращается, только если браузер не запустился или страница не загрузилась.
func (n *Navigator) Scrape(ctx context.Context, url string, pages int) (*models.ScrapeSession, error) {
	session := &models.ScrapeSession{
		URL:            url,
		RequestedPages: pages,
		Records:        []models.ReviewRecord{},
		StartedAt:      time.Now(),
	}
	log := n.log.With(zap.String("url", url))

	if pages != n.cfg.PageCap {
		log.Info("Запрошенное число страниц не применяется, используется предел",
			zap.Int("requested", pages),
			zap.Int("cap", n.cfg.PageCap),
		)
	}

	defer func() {
		session.FinishedAt = time.Now()
		n.metrics.IncTermination(string(session.Termination))
		log.Info("Скрапинг завершен",
			zap.String("termination", string(session.Termination)),
			zap.Int("pages", session.PagesScraped),
			zap.Int("records", len(session.Records)),
			zap.Duration("duration", session.FinishedAt.Sub(session.StartedAt)),
		)
	}()

	br, err := n.newBrowser()
	if err != nil {
		session.Termination = models.TerminationLaunchFailed
		return session, fmt.Errorf("ошибка создания браузера: %w", err)
	}
	defer func() {
		if err := br.Close(); err != nil {
			log.Warn("Ошибка закрытия браузера", zap.Error(err))
		}
	}()

	if err := br.Launch(ctx); err != nil {
		session.Termination = n.causeOr(ctx, models.TerminationLaunchFailed)
		return session, fmt.Errorf("ошибка запуска браузера: %w", err)
	}

	if err := br.Navigate(ctx, url); err != nil {
		session.Termination = n.causeOr(ctx, models.TerminationLoadFailed)
		return session, fmt.Errorf("ошибка загрузки страницы: %w", err)
	}

	if err := n.dismissPopup(ctx, br, log); err != nil {
		session.Termination = models.TerminationCancelled
		return session, nil
	}
	if err := n.openReviews(ctx, br, log); err != nil {
		session.Termination = models.TerminationCancelled
		return session, nil
	}

	session.Termination = n.paginate(ctx, br, session, log)
	return session, nil
}

// causeOr возвращает cancelled, если контекст уже отменен.
func (n *Navigator) causeOr(ctx context.Context, cause models.TerminationCause) models.TerminationCause {
	if ctx.Err() != nil {
		return models.TerminationCancelled
	}
	return cause
}

// dismissPopup закрывает окно входа, если оно появилось. Отсутствие окна - не ошибка.
// Ошибка возвращается только при отмене контекста.
func (n *Navigator) dismissPopup(ctx context.Context, br browser.Browser, log *zap.Logger) error {
	found, err := br.WaitFor(ctx, n.cfg.PopupClose, browser.StateVisible, n.cfg.PopupTimeout)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil || !found {
		n.metrics.IncOptionalMissed("popup")
		log.Info("Окно входа не найдено", zap.Error(err))
		return nil
	}

	if err := br.Click(ctx, n.cfg.PopupClose); err != nil {
		n.metrics.IncOptionalMissed("popup")
		log.Info("Не удалось закрыть окно входа", zap.Error(err))
		return ctx.Err()
	}
	log.Info("Окно входа закрыто")
	return nil
}

// openReviews переходит к полному списку отзывов. Если кнопки нет,
// продолжаем на текущей странице.
func (n *Navigator) openReviews(ctx context.Context, br browser.Browser, log *zap.Logger) error {
	found, err := br.WaitFor(ctx, n.cfg.ReviewsButton, browser.StateVisible, n.cfg.ReviewsButtonTimeout)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil || !found {
		n.metrics.IncOptionalMissed("reviews_button")
		log.Warn("Кнопка всех отзывов не найдена", zap.Error(err))
		return nil
	}

	if err := br.Click(ctx, n.cfg.ReviewsButton); err != nil {
		n.metrics.IncOptionalMissed("reviews_button")
		log.Warn("Не удалось открыть все отзывы", zap.Error(err))
		return ctx.Err()
	}
	log.Info("Открыт список всех отзывов")
	return n.sleep(ctx, n.cfg.ListingPause)
}

func (n *Navigator) paginate(ctx context.Context, br browser.Browser, session *models.ScrapeSession, log *zap.Logger) models.TerminationCause {
	for page := 1; page <= n.cfg.PageCap; page++ {
		pageLog := log.With(zap.Int("page", page))

		found, err := br.WaitFor(ctx, n.cfg.ReviewBlock, browser.StatePresent, n.cfg.ReviewsTimeout)
		if ctx.Err() != nil {
			return models.TerminationCancelled
		}
		if err != nil || !found {
			pageLog.Warn("Отзывы не появились на странице", zap.Error(err))
			return models.TerminationReviewsTimeout
		}

		if err := n.sleep(ctx, n.cfg.SettlePause); err != nil {
			return models.TerminationCancelled
		}

		html, err := br.Content(ctx)
		if err != nil {
			pageLog.Error("Ошибка получения содержимого страницы", zap.Error(err))
			return n.causeOr(ctx, models.TerminationContentFailed)
		}

		records, skipped, err := n.extractor.Extract(html)
		if err != nil {
			pageLog.Error("Ошибка извлечения отзывов", zap.Error(err))
			return models.TerminationContentFailed
		}

		session.Records = append(session.Records, records...)
		session.PagesScraped++
		n.metrics.IncPage()
		n.metrics.AddRecords(len(records), skipped)
		pageLog.Info("Страница обработана",
			zap.Int("records", len(records)),
			zap.Int("skipped", skipped),
			zap.Int("total", len(session.Records)),
		)

		if page == n.cfg.PageCap {
			return models.TerminationCapReached
		}

		if cause, ok := n.nextPage(ctx, br, pageLog); !ok {
			return cause
		}
	}

	return models.TerminationCapReached
}

// nextPage переходит на следующую страницу. ok == false означает конец пагинации.
func (n *Navigator) nextPage(ctx context.Context, br browser.Browser, log *zap.Logger) (models.TerminationCause, bool) {
	// Скрытая или неактивная кнопка Next означает последнюю страницу.
	found, err := br.WaitFor(ctx, n.cfg.NextControl, browser.StateVisible, n.cfg.NextTimeout)
	if ctx.Err() != nil {
		return models.TerminationCancelled, false
	}
	if err != nil || !found {
		log.Info("Кнопка Next не найдена, последняя страница", zap.Error(err))
		return models.TerminationNoNextControl, false
	}

	if err := br.ScrollIntoView(ctx, n.cfg.NextControl); err != nil {
		log.Warn("Ошибка прокрутки к Next", zap.Error(err))
		return n.causeOr(ctx, models.TerminationNextClickFailed), false
	}
	if err := n.sleep(ctx, n.cfg.ScrollPause); err != nil {
		return models.TerminationCancelled, false
	}

	if err := br.ScriptClick(ctx, n.cfg.NextControl); err != nil {
		log.Warn("Ошибка клика по Next", zap.Error(err))
		return n.causeOr(ctx, models.TerminationNextClickFailed), false
	}
	if err := n.sleep(ctx, n.cfg.PageLoadPause); err != nil {
		return models.TerminationCancelled, false
	}

	return "", true
}

// IsCancelled сообщает, остановлен ли запуск отменой контекста.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
