package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"reviewAnalyzer/internal/config"
	"reviewAnalyzer/internal/logger"
)

func testConfig(t *testing.T) *config.Cfg {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("DB_HOST", "")
	t.Setenv("STOPWORDS_FILE", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestBuildWithoutDatabase(t *testing.T) {
	cfg := testConfig(t)

	a, err := Build(cfg, logger.Nop())
	require.NoError(t, err)
	defer a.Close(logger.Nop())

	require.NotNil(t, a.Pipeline)
	require.NotNil(t, a.LLM)
	require.Nil(t, a.Runs)
	require.Equal(t, 179, a.Cleaner.Len())
}

func TestBuildWithStopwordsFile(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "stopwords.txt")
	require.NoError(t, os.WriteFile(path, []byte("# custom\nfoo\nbar\n"), 0o644))
	cfg.Cleaner.StopwordsFile = path

	a, err := Build(cfg, logger.Nop())
	require.NoError(t, err)
	require.Equal(t, 2, a.Cleaner.Len())
}

func TestBuildRejectsBadSelector(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scraper.RatingSelector = "div > span"

	_, err := Build(cfg, logger.Nop())
	require.ErrorContains(t, err, "SCRAPER_RATING")
}
