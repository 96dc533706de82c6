// Package pipeline связывает этапы анализа: скрапинг, очистку, сводку, экспорт и архив.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"reviewAnalyzer/internal/models"
)

// MaxPromptReviews - сколько очищенных отзывов попадает в запрос к модели.
const MaxPromptReviews = 30

var ErrNoReviews = errors.New("pipeline: отзывы не найдены")

type Scraper interface {
	Scrape(ctx context.Context, url string, pages int) (*models.ScrapeSession, error)
}

type Cleaner interface {
	Clean(text string) string
}

type Summarizer interface {
	Summarize(ctx context.Context, text string, runID *uint) string
}

type Exporter interface {
	Export(records []models.ReviewRecord) (string, error)
}

// Archive сохраняет завершенные запуски. Скрапинг из архива ничего не читает.
type Archive interface {
	StartRun(url string, pages int) (uint, error)
	FinishRun(id uint, session *models.ScrapeSession, summary, exportPath string) error
	FailRun(id uint, session *models.ScrapeSession, reason string) error
}

type Report struct {
	RunID      *uint                 `json:"run_id,omitempty"`
	Session    *models.ScrapeSession `json:"session"`
	Records    []models.ReviewRecord `json:"records"`
	Summary    string                `json:"summary"`
	ExportPath string                `json:"export_path"`
}

type Pipeline struct {
	scraper    Scraper
	cleaner    Cleaner
	summarizer Summarizer
	exporter   Exporter
	archive    Archive
	log        *zap.Logger
}

// New собирает конвейер. archive может быть nil.
func New(scraper Scraper, cleaner Cleaner, summarizer Summarizer, exporter Exporter, archive Archive, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		scraper:    scraper,
		cleaner:    cleaner,
		summarizer: summarizer,
		exporter:   exporter,
		archive:    archive,
		log:        log,
	}
}

// BuildTextBlock склеивает не более limit очищенных отзывов через перевод строки.
func BuildTextBlock(cleaned []string, limit int) string {
	if limit >= 0 && len(cleaned) > limit {
		cleaned = cleaned[:limit]
	}
	return strings.Join(cleaned, "\n")
}

// Analyze выполняет один запуск целиком. Ошибка сводки не прерывает запуск:
// она попадает в Report.Summary строкой.
func (p *Pipeline) Analyze(ctx context.Context, url string, pages int) (*Report, error) {
	log := p.log.With(zap.String("url", url))
	report := &Report{}

	runID := p.startRun(url, pages, log)
	report.RunID = runID

	session, err := p.scraper.Scrape(ctx, url, pages)
	report.Session = session
	if err != nil {
		p.failRun(runID, session, err.Error(), log)
		return report, fmt.Errorf("ошибка скрапинга: %w", err)
	}
	if len(session.Records) == 0 {
		p.failRun(runID, session, ErrNoReviews.Error(), log)
		return report, ErrNoReviews
	}

	records := session.Records
	cleaned := make([]string, len(records))
	for i := range records {
		records[i].CleanedReview = p.cleaner.Clean(records[i].Review)
		cleaned[i] = records[i].CleanedReview
	}
	report.Records = records
	log.Info("Отзывы очищены", zap.Int("records", len(records)))

	block := BuildTextBlock(cleaned, MaxPromptReviews)
	report.Summary = p.summarizer.Summarize(ctx, block, runID)

	path, err := p.exporter.Export(records)
	if err != nil {
		p.failRun(runID, session, err.Error(), log)
		return report, fmt.Errorf("ошибка экспорта: %w", err)
	}
	report.ExportPath = path
	log.Info("Отчет сохранен", zap.String("path", path))

	if p.archive != nil && runID != nil {
		if err := p.archive.FinishRun(*runID, session, report.Summary, path); err != nil {
			log.Warn("Ошибка сохранения запуска в архив", zap.Uint("run_id", *runID), zap.Error(err))
			// Запуск не должен остаться в статусе running.
			p.failRun(runID, session, err.Error(), log)
		}
	}

	return report, nil
}

func (p *Pipeline) startRun(url string, pages int, log *zap.Logger) *uint {
	if p.archive == nil {
		return nil
	}
	id, err := p.archive.StartRun(url, pages)
	if err != nil {
		log.Warn("Архив недоступен, запуск не будет сохранен", zap.Error(err))
		return nil
	}
	return &id
}

func (p *Pipeline) failRun(runID *uint, session *models.ScrapeSession, reason string, log *zap.Logger) {
	if p.archive == nil || runID == nil {
		return
	}
	if err := p.archive.FailRun(*runID, session, reason); err != nil {
		log.Warn("Ошибка сохранения запуска в архив", zap.Uint("run_id", *runID), zap.Error(err))
	}
}
