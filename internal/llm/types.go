// Package llm строит сводку по отзывам через OpenAI-совместимый chat API.
// По умолчанию запросы уходят в Gemini через его OpenAI-совместимую точку доступа.
package llm

import "context"

// SummaryErrorPrefix начинает любую строку, которую Summarize возвращает вместо сводки.
const SummaryErrorPrefix = "⚠️ Error generating summary: "

// Logger сохраняет запросы к модели в архив запусков.
type Logger interface {
	LogLLMRequest(ctx context.Context, runID *uint, role, promptText, responseText, model string, tokensUsed int) error
}

// Summarizer никогда не возвращает ошибку: сбой превращается в строку с SummaryErrorPrefix.
type Summarizer interface {
	Summarize(ctx context.Context, text string, runID *uint) string
}

type Options struct {
	APIKey            string
	Model             string
	BaseURL           string
	MaxTokens         int
	RequestsPerMinute int
	TokensPerHour     int
}
