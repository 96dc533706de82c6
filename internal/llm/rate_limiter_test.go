package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterRequests(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, 1000)
	rl.now = func() time.Time { return now }
	rl.lastRefill = now

	require.NoError(t, rl.Reserve(10))
	require.NoError(t, rl.Reserve(10))
	require.ErrorContains(t, rl.Reserve(10), "RPM")

	now = now.Add(30 * time.Second)
	require.NoError(t, rl.Reserve(10))

	requests, tokens := rl.Stats()
	require.Equal(t, 0, requests)
	require.Equal(t, 978, tokens)
}

func TestRateLimiterTokens(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(100, 100)
	rl.now = func() time.Time { return now }
	rl.lastRefill = now

	require.NoError(t, rl.Reserve(60))
	require.ErrorContains(t, rl.Reserve(60), "токенов")

	rl.Settle(10, 30)
	_, tokens := rl.Stats()
	require.Equal(t, 20, tokens)

	rl.Settle(10, 500)
	_, tokens = rl.Stats()
	require.Zero(t, tokens)
}

func TestEstimateTokens(t *testing.T) {
	require.Equal(t, 100+2+1, estimateTokens(100, "12345678", "abcd"))
}
