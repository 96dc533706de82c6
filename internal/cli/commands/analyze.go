package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"reviewAnalyzer/internal/cli/ui"
	"reviewAnalyzer/internal/llm"
	"reviewAnalyzer/internal/pipeline"
	"reviewAnalyzer/internal/scraper"
)

const DefaultPages = 5

type Analyzer interface {
	Analyze(ctx context.Context, url string, pages int) (*pipeline.Report, error)
}

// AnalyzeHandler запускает анализ товара из консоли
type AnalyzeHandler struct {
	analyzer Analyzer
	out      io.Writer
	log      *zap.Logger
}

func NewAnalyzeHandler(analyzer Analyzer, out io.Writer, log *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		out:      out,
		log:      log,
	}
}

// ParseArgs разбирает "<url> [pages]".
func ParseArgs(args string) (string, int, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", 0, fmt.Errorf("укажите URL товара")
	}
	if len(fields) > 2 {
		return "", 0, fmt.Errorf("слишком много аргументов")
	}

	u, err := url.ParseRequestURI(fields[0])
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", 0, fmt.Errorf("некорректный URL: %s", fields[0])
	}

	pages := DefaultPages
	if len(fields) == 2 {
		pages, err = strconv.Atoi(fields[1])
		if err != nil || pages <= 0 {
			return "", 0, fmt.Errorf("число страниц должно быть положительным: %s", fields[1])
		}
	}
	return fields[0], pages, nil
}

// IsURL сообщает, похожа ли строка на ссылку, чтобы принимать URL без команды.
func IsURL(line string) bool {
	return strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://")
}

// Run выполняет анализ. Ctrl+C прерывает только текущий запуск.
func (h *AnalyzeHandler) Run(ctx context.Context, args string) {
	target, pages, err := ParseArgs(args)
	if err != nil {
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" "+err.Error()+ui.ColorReset)
		return
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconGlobe+" Сбор отзывов:"+ui.ColorReset+" %s\n", target)
	fmt.Fprintln(h.out, ui.ColorGray+"Ctrl+C - остановить сбор, собранные отзывы сохранятся"+ui.ColorReset)

	report, err := h.analyzer.Analyze(runCtx, target, pages)
	if report != nil && report.Session != nil {
		s := report.Session
		fmt.Fprintf(h.out, ui.ColorCyan+ui.IconList+" Страниц:"+ui.ColorReset+" %d, отзывов: %d, остановка: %s\n",
			s.PagesScraped, len(s.Records), s.Termination)
	}
	if scraper.IsCancelled(runCtx.Err()) {
		fmt.Fprintln(h.out, ui.ColorYellow+ui.IconClock+" Запуск прерван, обрабатываются уже собранные отзывы"+ui.ColorReset)
	}

	switch {
	case errors.Is(err, pipeline.ErrNoReviews):
		fmt.Fprintln(h.out, ui.ColorYellow+ui.IconCross+" Отзывы не найдены"+ui.ColorReset)
		return
	case err != nil:
		h.log.Error("Ошибка анализа", zap.String("url", target), zap.Error(err))
		fmt.Fprintf(h.out, ui.ColorRed+ui.IconCross+" Ошибка:"+ui.ColorReset+" %v\n", err)
		if report == nil || report.Summary == "" {
			return
		}
	}

	PrintSummary(h.out, report.Summary)
	if report.ExportPath != "" {
		fmt.Fprintf(h.out, ui.ColorGreen+ui.IconCheckmark+" Таблица %d x %d сохранена:"+ui.ColorReset+" %s\n",
			len(report.Records), 4, report.ExportPath)
	}
	if report.RunID != nil {
		fmt.Fprintf(h.out, ui.ColorGray+"Запуск #%d сохранен в архив"+ui.ColorReset+"\n", *report.RunID)
	}
	fmt.Fprintln(h.out)
}

// PrintSummary печатает сводку, выделяя ошибку генерации.
func PrintSummary(out io.Writer, summary string) {
	if strings.HasPrefix(summary, llm.SummaryErrorPrefix) {
		fmt.Fprintln(out, ui.ColorRed+summary+ui.ColorReset)
		return
	}
	fmt.Fprintln(out, "\n"+ui.ColorBold+ui.IconChart+" Сводка по отзывам:"+ui.ColorReset)
	fmt.Fprintln(out, summary)
}
