package commands

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"reviewAnalyzer/internal/cli/ui"
)

// RunsHandler выводит список запусков из архива
type RunsHandler struct {
	archive Archive
	out     io.Writer
	log     *zap.Logger
}

func NewRunsHandler(archive Archive, out io.Writer, log *zap.Logger) *RunsHandler {
	return &RunsHandler{archive: archive, out: out, log: log}
}

func (h *RunsHandler) List() {
	if h.archive == nil {
		fmt.Fprintln(h.out, ui.ColorYellow+ui.IconCross+" Архив не настроен (DB_HOST)"+ui.ColorReset)
		return
	}

	runs, err := h.archive.ListRuns(50, 0)
	if err != nil {
		h.log.Error("Ошибка чтения запусков", zap.Error(err))
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Ошибка чтения запусков"+ui.ColorReset)
		return
	}
	if len(runs) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"Запусков пока нет"+ui.ColorReset)
		return
	}

	fmt.Fprintln(h.out, "\n"+ui.ColorBold+ui.IconList+" Запуски:"+ui.ColorReset)
	fmt.Fprintln(h.out)
	for _, r := range runs {
		icon, color, text := ui.FormatStatus(r.Status)
		fmt.Fprintf(h.out, "  "+ui.ColorBold+"#%d"+ui.ColorReset+" %s%s %s"+ui.ColorReset+" "+ui.ColorGray+"%s"+ui.ColorReset+"\n",
			r.ID, color, icon, text, r.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(h.out, "  "+ui.ColorGray+"└─"+ui.ColorReset+" %s (%d отзывов)\n", r.URL, r.RecordCount)
		fmt.Fprintln(h.out)
	}
}
