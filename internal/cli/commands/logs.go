package commands

import (
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"reviewAnalyzer/internal/cli/ui"
)

// LogsHandler обрабатывает команды просмотра логов
type LogsHandler struct {
	archive Archive
	out     io.Writer
	log     *zap.Logger
}

func NewLogsHandler(archive Archive, out io.Writer, log *zap.Logger) *LogsHandler {
	return &LogsHandler{
		archive: archive,
		out:     out,
		log:     log,
	}
}

// Show выводит запросы к модели для запуска
func (h *LogsHandler) Show(idStr string) {
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

	fmt.Fprintf(h.out, "\n"+ui.ColorBold+"=== "+ui.IconList+" Логи запуска #%d ==="+ui.ColorReset+"\n", run.ID)
	fmt.Fprintf(h.out, ui.ColorCyan+"URL:"+ui.ColorReset+" %s\n\n", run.URL)

	logs, err := h.archive.GetLLMLogsByRunID(run.ID)
	if err != nil {
		h.log.Error("Ошибка получения логов", zap.Error(err))
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Ошибка получения логов"+ui.ColorReset)
		return
	}

	if len(logs) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"Логи не найдены"+ui.ColorReset)
		return
	}

	for _, l := range logs {
		fmt.Fprintf(h.out, ui.ColorGray+"[%s]"+ui.ColorReset+" "+ui.ColorCyan+"%s"+ui.ColorReset+" %s, токенов: %d\n",
			l.CreatedAt.Format("15:04:05"), l.Role, l.Model, l.TokensUsed)
		if l.Role == "error" {
			fmt.Fprintf(h.out, "  "+ui.ColorRed+"[ОШИБКА]"+ui.ColorReset+" %s\n", l.ResponseText)
		} else {
			fmt.Fprintf(h.out, "  "+ui.ColorGreen+"[OK]"+ui.ColorReset+" %s\n", ui.Truncate(l.ResponseText, 200))
		}
	}
	fmt.Fprintln(h.out)
}
