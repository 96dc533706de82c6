package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("BROWSER_ENGINE", "")
	t.Setenv("SCRAPER_PAGE_CAP", "")
	t.Setenv("DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "playwright", cfg.Browser.Engine)
	require.True(t, cfg.Browser.Headless)
	require.Equal(t, 10, cfg.Scraper.PageCap)
	require.Equal(t, 5*time.Second, cfg.Scraper.PopupTimeout)
	require.Equal(t, 10*time.Second, cfg.Scraper.ReviewsTimeout)
	require.Equal(t, 3*time.Second, cfg.Scraper.PageLoadPause)
	require.Equal(t, "div.ZmyHeo", cfg.Scraper.ReviewBodySelector)
	require.Equal(t, "//span[text()='Next']", cfg.Scraper.NextXPath)
	require.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	require.Equal(t, "output/cleaned_reviews.xlsx", cfg.Export.Path)
	require.False(t, cfg.Database.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BROWSER_ENGINE", "ChromeDP")
	t.Setenv("PW_HEADLESS", "false")
	t.Setenv("SCRAPER_SETTLE_PAUSE", "250ms")
	t.Setenv("SCRAPER_NEXT_TIMEOUT", "7")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASS", "p")
	t.Setenv("DB_NAME", "reviews")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "chromedp", cfg.Browser.Engine)
	require.False(t, cfg.Browser.Headless)
	require.Equal(t, 250*time.Millisecond, cfg.Scraper.SettlePause)
	require.Equal(t, 7*time.Second, cfg.Scraper.NextTimeout)
	require.Equal(t, "secret", cfg.LLM.APIKey)
	require.True(t, cfg.Database.Enabled())
	require.Equal(t, "postgres://u:p@db:5432/reviews?sslmode=disable", cfg.Database.URL())
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BROWSER_ENGINE", "selenium")

	_, err := Load()
	require.Error(t, err)
}

func TestEnvDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "empty", value: "", want: time.Minute},
		{name: "duration", value: "1500ms", want: 1500 * time.Millisecond},
		{name: "seconds", value: "4", want: 4 * time.Second},
		{name: "garbage", value: "soon", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			require.Equal(t, tt.want, envDuration("TEST_DURATION", time.Minute))
		})
	}
}

func TestLoadRejectsUnboundedTimeouts(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SCRAPER_POPUP_TIMEOUT", "0"},
		{"SCRAPER_NEXT_TIMEOUT", "-5s"},
		{"SCRAPER_REVIEWS_TIMEOUT", "0s"},
		{"SCRAPER_REVIEWS_BUTTON_TIMEOUT", "-1"},
		{"BROWSER_TIMEOUT", "0"},
		{"SCRAPER_SCROLL_PAUSE", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("BROWSER_ENGINE", "")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.ErrorContains(t, err, tt.key)
		})
	}
}

func TestLoadAllowsZeroPauses(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BROWSER_ENGINE", "")
	t.Setenv("SCRAPER_SETTLE_PAUSE", "0")
	t.Setenv("SCRAPER_PAGE_LOAD_PAUSE", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Zero(t, cfg.Scraper.SettlePause)
	require.Zero(t, cfg.Scraper.PageLoadPause)
}
