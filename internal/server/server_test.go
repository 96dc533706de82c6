package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"reviewAnalyzer/internal/config"
	"reviewAnalyzer/internal/database"
	"reviewAnalyzer/internal/logger"
	"reviewAnalyzer/internal/metrics"
	"reviewAnalyzer/internal/models"
	"reviewAnalyzer/internal/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAnalyzer struct {
	report  *pipeline.Report
	err     error
	url     string
	pages   int
	started chan struct{}
	release chan struct{}
}

func (s *stubAnalyzer) Analyze(ctx context.Context, url string, pages int) (*pipeline.Report, error) {
	s.url = url
	s.pages = pages
	if s.started != nil {
		close(s.started)
		<-s.release
	}
	return s.report, s.err
}

type stubRuns struct{}

func (stubRuns) ListRuns(limit, offset int) ([]database.AnalysisRun, error) {
	return []database.AnalysisRun{{ID: 2, URL: "https://shop.example/b"}, {ID: 1, URL: "https://shop.example/a"}}, nil
}

func (stubRuns) GetRunByID(id uint) (*database.AnalysisRun, error) {
	if id != 1 {
		return nil, errors.New("record not found")
	}
	return &database.AnalysisRun{ID: 1, URL: "https://shop.example/a", Status: database.RunStatusCompleted}, nil
}

func (stubRuns) GetReviewsByRunID(runID uint) ([]database.ReviewRow, error) {
	return []database.ReviewRow{{RunID: runID, Review: "Nice"}}, nil
}

func (stubRuns) GetLLMLogsByRunID(runID uint) ([]database.LlmLog, error) {
	return nil, nil
}

func sampleReport() *pipeline.Report {
	records := []models.ReviewRecord{{Rating: "5", Title: "Great", Review: "Great phone", CleanedReview: "great phone"}}
	return &pipeline.Report{
		Session: &models.ScrapeSession{PagesScraped: 1, Records: records, Termination: models.TerminationNoNextControl},
		Records: records,
		Summary: "1. **Overall Sentiment Summary**",
	}
}

func newTestServer(analyzer Analyzer, runs RunStore) *Server {
	return New(&config.Cfg{}, logger.Nop(), analyzer, runs, metrics.New())
}

func postAnalyze(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(&stubAnalyzer{}, nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAnalyzeAndDownload(t *testing.T) {
	analyzer := &stubAnalyzer{report: sampleReport()}
	h := newTestServer(analyzer, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report/download", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = postAnalyze(t, h, `{"url": "https://shop.example/item"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://shop.example/item", analyzer.url)
	require.Equal(t, defaultPages, analyzer.pages)

	var got pipeline.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "1. **Overall Sentiment Summary**", got.Summary)
	require.Len(t, got.Records, 1)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report/download", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "cleaned_reviews.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Equal(t, []string{"5", "Great", "Great phone", "great phone"}, rows[1])
}

func TestAnalyzeValidation(t *testing.T) {
	h := newTestServer(&stubAnalyzer{report: sampleReport()}, nil).Handler()

	for _, body := range []string{
		`{}`,
		`{"url": "not a url"}`,
		`{"url": "ftp://shop.example/item"}`,
		`not json`,
	} {
		rec := postAnalyze(t, h, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestAnalyzeRejectsInternalTarget(t *testing.T) {
	analyzer := &stubAnalyzer{report: sampleReport()}
	rec := postAnalyze(t, newTestServer(analyzer, nil).Handler(), `{"url": "http://127.0.0.1:9000/item"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, analyzer.url)
}

func TestAnalyzeErrors(t *testing.T) {
	h := newTestServer(&stubAnalyzer{report: &pipeline.Report{}, err: pipeline.ErrNoReviews}, nil).Handler()
	rec := postAnalyze(t, h, `{"url": "https://shop.example/item", "pages": 3}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	h = newTestServer(&stubAnalyzer{report: &pipeline.Report{}, err: errors.New("ошибка запуска браузера")}, nil).Handler()
	rec = postAnalyze(t, h, `{"url": "https://shop.example/item"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "ошибка запуска браузера")
}

func TestAnalyzeRejectsConcurrentRun(t *testing.T) {
	analyzer := &stubAnalyzer{
		report:  sampleReport(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	h := newTestServer(analyzer, nil).Handler()

	done := make(chan int)
	go func() {
		done <- postAnalyze(t, h, `{"url": "https://shop.example/item"}`).Code
	}()
	<-analyzer.started

	rec := postAnalyze(t, h, `{"url": "https://shop.example/other"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	close(analyzer.release)
	require.Equal(t, http.StatusOK, <-done)
}

func TestRunsEndpoints(t *testing.T) {
	h := newTestServer(&stubAnalyzer{}, stubRuns{}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []database.AnalysisRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 2)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"reviews"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/9", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunsWithoutArchive(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(&stubAnalyzer{}, nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(&stubAnalyzer{}, nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "review_pages_scraped_total")
}
