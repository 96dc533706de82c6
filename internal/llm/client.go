package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"reviewAnalyzer/internal/metrics"
)

var errMissingAPIKey = errors.New("GEMINI_API_KEY не задан")

type Client struct {
	client      *openai.Client
	hasKey      bool
	model       string
	maxTokens   int
	logger      Logger
	rateLimiter *RateLimiter
	metrics     *metrics.Metrics
	log         *zap.Logger
	redact      func(string) string
	breaker     *CircuitBreaker
}

type ClientOption func(*clientSettings)

type clientSettings struct {
	httpClient *http.Client
	metrics    *metrics.Metrics
	log        *zap.Logger
	redact     func(string) string
	breaker    *CircuitBreaker
}

// WithHTTPClient подменяет транспорт, например на httpmock в тестах.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(s *clientSettings) { s.httpClient = c }
}

func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(s *clientSettings) { s.metrics = m }
}

func WithZap(log *zap.Logger) ClientOption {
	return func(s *clientSettings) { s.log = log }
}

// WithRedactor задает фильтр текста перед записью в лог запросов.
func WithRedactor(redact func(string) string) ClientOption {
	return func(s *clientSettings) { s.redact = redact }
}

func WithCircuitBreaker(cb *CircuitBreaker) ClientOption {
	return func(s *clientSettings) { s.breaker = cb }
}

// NewClient создает клиента. logger может быть nil, если архив не настроен.
func NewClient(opts Options, logger Logger, options ...ClientOption) *Client {
	settings := clientSettings{
		log:     zap.NewNop(),
		redact:  func(s string) string { return s },
		breaker: NewCircuitBreaker(defaultMaxFailures, defaultResetTimeout),
	}
	for _, o := range options {
		o(&settings)
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if settings.httpClient != nil {
		cfg.HTTPClient = settings.httpClient
	}

	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4000
	}

	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		hasKey:      strings.TrimSpace(opts.APIKey) != "",
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		logger:      logger,
		rateLimiter: NewRateLimiter(opts.RequestsPerMinute, opts.TokensPerHour),
		metrics:     settings.metrics,
		log:         settings.log,
		redact:      settings.redact,
		breaker:     settings.breaker,
	}
}

// Summarize отправляет блок отзывов модели и возвращает ответ как есть.
// При любой ошибке возвращается строка, начинающаяся с SummaryErrorPrefix.
func (c *Client) Summarize(ctx context.Context, text string, runID *uint) string {
	start := time.Now()
	prompt := BuildPrompt(text)

	summary, tokens, err := c.complete(ctx, prompt)
	if err != nil {
		c.metrics.ObserveSummary("error", time.Since(start))
		c.log.Warn("Ошибка генерации сводки", zap.String("model", c.model), zap.Error(err))
		c.record(ctx, runID, "error", prompt, err.Error(), 0)
		return SummaryErrorPrefix + err.Error()
	}

	c.metrics.ObserveSummary("ok", time.Since(start))
	c.log.Info("Сводка получена",
		zap.String("model", c.model),
		zap.Int("tokens", tokens),
		zap.Duration("duration", time.Since(start)),
	)
	c.record(ctx, runID, "assistant", prompt, summary, tokens)
	return summary
}

func (c *Client) complete(ctx context.Context, prompt string) (string, int, error) {
	if !c.hasKey {
		return "", 0, errMissingAPIKey
	}

	if err := c.breaker.Allow(); err != nil {
		return "", 0, err
	}

	estimated := estimateTokens(c.maxTokens, systemMessage, prompt)
	if err := c.rateLimiter.Reserve(estimated); err != nil {
		return "", 0, err
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemMessage,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		// Отмена вызывающей стороной не говорит о недоступности модели.
		if ctx.Err() == nil {
			c.breaker.Failure()
		}
		return "", 0, fmt.Errorf("ошибка запроса к модели: %w", err)
	}
	c.breaker.Success()

	c.rateLimiter.Settle(estimated, resp.Usage.TotalTokens)

	if len(resp.Choices) == 0 {
		return "", resp.Usage.TotalTokens, fmt.Errorf("пустой ответ модели")
	}
	return resp.Choices[0].Message.Content, resp.Usage.TotalTokens, nil
}

func (c *Client) record(ctx context.Context, runID *uint, role, prompt, response string, tokens int) {
	if c.logger == nil {
		return
	}
	if err := c.logger.LogLLMRequest(ctx, runID, role, c.redact(formatPrompt(systemMessage, prompt)), c.redact(response), c.model, tokens); err != nil {
		c.log.Warn("Ошибка записи лога запроса к модели", zap.Error(err))
	}
}
