package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"reviewAnalyzer/internal/cli/ui"
	"reviewAnalyzer/internal/llm"
)

// LLMHandler отправляет модели произвольный текст без скрапинга
type LLMHandler struct {
	summarizer llm.Summarizer
	clean      func(string) string
	out        io.Writer
}

func NewLLMHandler(summarizer llm.Summarizer, clean func(string) string, out io.Writer) *LLMHandler {
	return &LLMHandler{
		summarizer: summarizer,
		clean:      clean,
		out:        out,
	}
}

// Summarize очищает текст так же, как отзывы, и печатает сводку
func (h *LLMHandler) Summarize(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Пустой текст"+ui.ColorReset)
		return
	}
	if h.clean != nil {
		text = h.clean(text)
	}

	fmt.Fprintln(h.out, ui.ColorCyan+ui.IconRobot+" Запрос к модели..."+ui.ColorReset)
	PrintSummary(h.out, h.summarizer.Summarize(ctx, text, nil))
}
