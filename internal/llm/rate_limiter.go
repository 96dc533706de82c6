package llm

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter - token bucket на два ресурса: запросы в минуту и токены модели в час.
type RateLimiter struct {
	mu  sync.Mutex
	now func() time.Time

	requestsPerMinute int
	requests          float64
	tokensPerHour     int
	tokens            float64
	lastRefill        time.Time
}

func NewRateLimiter(requestsPerMinute, tokensPerHour int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 15 // бесплатный уровень gemini-2.0-flash
	}
	if tokensPerHour <= 0 {
		tokensPerHour = 1000000
	}

	return &RateLimiter{
		now:               time.Now,
		requestsPerMinute: requestsPerMinute,
		requests:          float64(requestsPerMinute),
		tokensPerHour:     tokensPerHour,
		tokens:            float64(tokensPerHour),
		lastRefill:        time.Now(),
	}
}

func (rl *RateLimiter) refill() {
	now := rl.now()
	elapsed := now.Sub(rl.lastRefill)
	if elapsed <= 0 {
		return
	}

	rl.requests = min(rl.requests+elapsed.Minutes()*float64(rl.requestsPerMinute), float64(rl.requestsPerMinute))
	rl.tokens = min(rl.tokens+elapsed.Hours()*float64(rl.tokensPerHour), float64(rl.tokensPerHour))
	rl.lastRefill = now
}

// Reserve списывает один запрос и оценку токенов. Если бюджета не хватает,
// ничего не списывается и возвращается ошибка с оценкой ожидания.
func (rl *RateLimiter) Reserve(estimatedTokens int) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	if rl.requests < 1 {
		wait := time.Duration((1 - rl.requests) * float64(time.Minute) / float64(rl.requestsPerMinute))
		return fmt.Errorf("rate limit: превышен лимит запросов (%d RPM), повторите через %v", rl.requestsPerMinute, wait.Round(time.Second))
	}
	if rl.tokens < float64(estimatedTokens) {
		wait := time.Duration((float64(estimatedTokens) - rl.tokens) * float64(time.Hour) / float64(rl.tokensPerHour))
		return fmt.Errorf("rate limit: недостаточно токенов (%d требуется, %.0f доступно), повторите через %v",
			estimatedTokens, rl.tokens, wait.Round(time.Second))
	}

	rl.requests--
	rl.tokens -= float64(estimatedTokens)
	return nil
}

// Settle корректирует бюджет по фактическому расходу токенов.
func (rl *RateLimiter) Settle(estimatedTokens, actualTokens int) {
	if actualTokens <= estimatedTokens {
		return
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.tokens = max(rl.tokens-float64(actualTokens-estimatedTokens), 0)
}

// Stats возвращает доступные запросы и токены.
func (rl *RateLimiter) Stats() (requests int, tokens int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	return int(rl.requests), int(rl.tokens)
}

// estimateTokens - грубая оценка: ~4 символа на токен плюс бюджет ответа.
func estimateTokens(maxTokens int, texts ...string) int {
	n := maxTokens
	for _, t := range texts {
		n += len(t) / 4
	}
	return n
}
