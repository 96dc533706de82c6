package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"reviewAnalyzer/internal/models"
)

// sqlRecorder запоминает SQL, который GORM строит в режиме DryRun.
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})    {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) last() string {
	if len(r.statements) == 0 {
		return ""
	}
	return r.statements[len(r.statements)-1]
}

func dryRunRepo(t *testing.T) (*RunRepository, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	require.NoError(t, err)
	return NewRunRepository(db), rec
}

func TestRepositorySQL(t *testing.T) {
	repo, rec := dryRunRepo(t)

	require.NoError(t, repo.CreateRun(&AnalysisRun{URL: "https://shop.example/item", Status: RunStatusRunning}))
	require.Contains(t, rec.last(), `INSERT INTO "analysis_runs"`)

	_, err := repo.ListRuns(20, 0)
	require.NoError(t, err)
	require.Contains(t, rec.last(), `FROM "analysis_runs" ORDER BY id DESC LIMIT 20`)

	_, err = repo.GetReviewsByRunID(3)
	require.NoError(t, err)
	require.Contains(t, rec.last(), `FROM "review_rows" WHERE run_id = 3 ORDER BY position ASC`)

	_, err = repo.GetLLMLogsByRunID(3)
	require.NoError(t, err)
	require.Contains(t, rec.last(), `FROM "llm_logs" WHERE run_id = 3`)

	require.NoError(t, repo.CompleteRun(3, RunResult{RecordCount: 2, Termination: "no_next_control"}))
	require.Contains(t, rec.last(), `UPDATE "analysis_runs" SET`)
	require.Contains(t, rec.last(), `'completed'`)

	require.NoError(t, repo.FailRun(4, RunResult{}, "boom"))
	require.Contains(t, rec.last(), `'failed'`)
	require.Contains(t, rec.last(), `'boom'`)

	runID := uint(3)
	require.NoError(t, repo.LogLLMRequest(context.Background(), &runID, "assistant", "prompt", "answer", "gemini-2.0-flash", 42))
	require.Contains(t, rec.last(), `INSERT INTO "llm_logs"`)
}

func TestSaveReviewsSkipsEmptyBatch(t *testing.T) {
	repo, rec := dryRunRepo(t)
	require.NoError(t, repo.SaveReviews(nil))
	require.Empty(t, rec.statements)

	require.NoError(t, repo.SaveReviews([]ReviewRow{{RunID: 1, Review: "ok"}}))
	require.Contains(t, rec.last(), `INSERT INTO "review_rows"`)
}

func TestReviewRows(t *testing.T) {
	session := &models.ScrapeSession{Records: []models.ReviewRecord{
		{Rating: "5", Title: "Nice", Review: "Nice phone", CleanedReview: "nice phone"},
		{Rating: models.NotAvailable, Title: models.NotAvailable, Review: "Bad", CleanedReview: "bad"},
	}}

	rows := ReviewRows(9, session)
	require.Len(t, rows, 2)
	require.Equal(t, ReviewRow{RunID: 9, Position: 1, Rating: "N/A", Title: "N/A", Review: "Bad", CleanedReview: "bad"}, rows[1])
	require.Nil(t, ReviewRows(9, nil))
}

func TestResultOf(t *testing.T) {
	finished := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	result := resultOf(&models.ScrapeSession{
		PagesScraped: 3,
		Records:      make([]models.ReviewRecord, 25),
		Termination:  models.TerminationNoNextControl,
		FinishedAt:   finished,
	})

	require.Equal(t, 3, result.PagesScraped)
	require.Equal(t, 25, result.RecordCount)
	require.Equal(t, "no_next_control", result.Termination)
	require.Equal(t, finished, result.FinishedAt)

	require.False(t, resultOf(nil).FinishedAt.IsZero())
}
