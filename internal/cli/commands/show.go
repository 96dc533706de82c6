package commands

import (
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"reviewAnalyzer/internal/cli/ui"
)

const showReviews = 10

// ShowHandler обрабатывает команды просмотра деталей
type ShowHandler struct {
	archive Archive
	out     io.Writer
	log     *zap.Logger
}

func NewShowHandler(archive Archive, out io.Writer, log *zap.Logger) *ShowHandler {
	return &ShowHandler{
		archive: archive,
		out:     out,
		log:     log,
	}
}

// Show выводит детали запуска, сводку и первые отзывы
func (h *ShowHandler) Show(idStr string) {
	if h.archive == nil {
		fmt.Fprintln(h.out, ui.ColorYellow+ui.IconCross+" Архив не настроен (DB_HOST)"+ui.ColorReset)
		return
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Неверный ID запуска"+ui.ColorReset)
		return
	}
	run, err := h.archive.GetRunByID(uint(id))
	if err != nil {
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Запуск не найден"+ui.ColorReset)
		return
	}

	_, _, statusText := ui.FormatStatus(run.Status)

	fmt.Fprintf(h.out, "\n"+ui.ColorBold+"=== Запуск #%d ==="+ui.ColorReset+"\n", run.ID)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconGlobe+" URL:"+ui.ColorReset+" %s\n", run.URL)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconChart+" Статус:"+ui.ColorReset+" %s\n", statusText)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconList+" Страниц:"+ui.ColorReset+" %d, отзывов: %d, остановка: %s\n",
		run.PagesScraped, run.RecordCount, run.Termination)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconTime+" Создан:"+ui.ColorReset+" %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.ExportPath != "" {
		fmt.Fprintf(h.out, ui.ColorCyan+ui.IconDocument+" Файл:"+ui.ColorReset+" %s\n", run.ExportPath)
	}
	if run.Error != "" {
		fmt.Fprintf(h.out, ui.ColorRed+ui.IconCross+" Ошибка:"+ui.ColorReset+" %s\n", run.Error)
	}
	if run.Summary != "" {
		PrintSummary(h.out, run.Summary)
	}

	reviews, err := h.archive.GetReviewsByRunID(run.ID)
	if err != nil {
		h.log.Error("Ошибка получения отзывов", zap.Error(err))
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Ошибка получения отзывов"+ui.ColorReset)
		return
	}

	if len(reviews) == 0 {
		fmt.Fprintln(h.out, "\n"+ui.ColorGray+"Отзывы не найдены"+ui.ColorReset)
		fmt.Fprintln(h.out)
		return
	}

	fmt.Fprintf(h.out, "\n"+ui.ColorYellow+ui.IconChat+" Отзывы (%d):"+ui.ColorReset+"\n", len(reviews))
	for i, r := range reviews {
		if i == showReviews {
			fmt.Fprintf(h.out, ui.ColorGray+"  ... еще %d"+ui.ColorReset+"\n", len(reviews)-showReviews)
			break
		}
		fmt.Fprintf(h.out, "  "+ui.ColorBold+"[%s]"+ui.ColorReset+" "+ui.ColorCyan+"%s"+ui.ColorReset+"\n", r.Rating, r.Title)
		fmt.Fprintf(h.out, "  "+ui.ColorGray+"%s"+ui.ColorReset+"\n", ui.Truncate(r.Review, 160))
	}
	fmt.Fprintln(h.out)
}
