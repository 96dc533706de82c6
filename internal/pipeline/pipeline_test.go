package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"reviewAnalyzer/internal/cleaner"
	"reviewAnalyzer/internal/models"
)

type stubScraper struct {
	session *models.ScrapeSession
	err     error
}

func (s *stubScraper) Scrape(ctx context.Context, url string, pages int) (*models.ScrapeSession, error) {
	s.session.URL = url
	s.session.RequestedPages = pages
	return s.session, s.err
}

type stubSummarizer struct {
	text  string
	runID *uint
	calls int
}

func (s *stubSummarizer) Summarize(ctx context.Context, text string, runID *uint) string {
	s.calls++
	s.text = text
	s.runID = runID
	return "summary"
}

type stubExporter struct {
	records []models.ReviewRecord
	err     error
}

func (s *stubExporter) Export(records []models.ReviewRecord) (string, error) {
	s.records = records
	if s.err != nil {
		return "", s.err
	}
	return "output/cleaned_reviews.xlsx", nil
}

type stubArchive struct {
	started  int
	finished []uint
	failed   []string
	startErr  error
	finishErr error
}

func (s *stubArchive) StartRun(url string, pages int) (uint, error) {
	if s.startErr != nil {
		return 0, s.startErr
	}
	s.started++
	return uint(s.started), nil
}

func (s *stubArchive) FinishRun(id uint, session *models.ScrapeSession, summary, exportPath string) error {
	if s.finishErr != nil {
		return s.finishErr
	}
	s.finished = append(s.finished, id)
	return nil
}

func (s *stubArchive) FailRun(id uint, session *models.ScrapeSession, reason string) error {
	s.failed = append(s.failed, reason)
	return nil
}

func reviews(n int) []models.ReviewRecord {
	records := make([]models.ReviewRecord, n)
	for i := range records {
		records[i] = models.ReviewRecord{Rating: "4", Title: "t", Review: fmt.Sprintf("Review number%d is GOOD", i)}
	}
	return records
}

func TestAnalyzeLimitsPromptToFirstReviews(t *testing.T) {
	scraper := &stubScraper{session: &models.ScrapeSession{Records: reviews(45)}}
	summarizer := &stubSummarizer{}
	exporter := &stubExporter{}
	archive := &stubArchive{}

	p := New(scraper, cleaner.NewEnglish(), summarizer, exporter, archive, nil)
	report, err := p.Analyze(context.Background(), "https://shop.example/item", 5)
	require.NoError(t, err)

	lines := strings.Split(summarizer.text, "\n")
	require.Len(t, lines, MaxPromptReviews)
	require.Equal(t, "review number good", lines[0])
	require.NotContains(t, summarizer.text, "Review")

	require.Len(t, exporter.records, 45)
	require.Equal(t, "review number good", exporter.records[44].CleanedReview)
	require.Equal(t, "summary", report.Summary)
	require.Equal(t, "output/cleaned_reviews.xlsx", report.ExportPath)
	require.NotNil(t, report.RunID)
	require.Equal(t, uint(1), *report.RunID)
	require.Equal(t, report.RunID, summarizer.runID)
	require.Equal(t, []uint{1}, archive.finished)
}

func TestAnalyzeNoReviews(t *testing.T) {
	scraper := &stubScraper{session: &models.ScrapeSession{Records: []models.ReviewRecord{}, Termination: models.TerminationReviewsTimeout}}
	summarizer := &stubSummarizer{}
	exporter := &stubExporter{}
	archive := &stubArchive{}

	report, err := New(scraper, cleaner.NewEnglish(), summarizer, exporter, archive, nil).
		Analyze(context.Background(), "https://shop.example/item", 5)

	require.ErrorIs(t, err, ErrNoReviews)
	require.Equal(t, models.TerminationReviewsTimeout, report.Session.Termination)
	require.Zero(t, summarizer.calls)
	require.Nil(t, exporter.records)
	require.Equal(t, []string{ErrNoReviews.Error()}, archive.failed)
}

func TestAnalyzeScrapeError(t *testing.T) {
	scraper := &stubScraper{
		session: &models.ScrapeSession{Termination: models.TerminationLaunchFailed},
		err:     errors.New("no browser"),
	}
	archive := &stubArchive{}

	report, err := New(scraper, cleaner.NewEnglish(), &stubSummarizer{}, &stubExporter{}, archive, nil).
		Analyze(context.Background(), "https://shop.example/item", 5)

	require.Error(t, err)
	require.Equal(t, models.TerminationLaunchFailed, report.Session.Termination)
	require.Len(t, archive.failed, 1)
}

func TestAnalyzeExportError(t *testing.T) {
	scraper := &stubScraper{session: &models.ScrapeSession{Records: reviews(2)}}
	summarizer := &stubSummarizer{}

	report, err := New(scraper, cleaner.NewEnglish(), summarizer, &stubExporter{err: errors.New("disk full")}, nil, nil).
		Analyze(context.Background(), "https://shop.example/item", 5)

	require.ErrorContains(t, err, "disk full")
	require.Equal(t, "summary", report.Summary)
	require.Empty(t, report.ExportPath)
	require.Nil(t, report.RunID)
}

func TestAnalyzeContinuesWhenArchiveIsDown(t *testing.T) {
	scraper := &stubScraper{session: &models.ScrapeSession{Records: reviews(1)}}
	archive := &stubArchive{startErr: errors.New("connection refused")}

	report, err := New(scraper, cleaner.NewEnglish(), &stubSummarizer{}, &stubExporter{}, archive, nil).
		Analyze(context.Background(), "https://shop.example/item", 5)

	require.NoError(t, err)
	require.Nil(t, report.RunID)
	require.Empty(t, archive.finished)
}

func TestAnalyzeMarksRunFailedWhenFinishFails(t *testing.T) {
	scraper := &stubScraper{session: &models.ScrapeSession{Records: reviews(2)}}
	archive := &stubArchive{finishErr: errors.New("value too long for type character varying(16)")}

	p := New(scraper, cleaner.NewEnglish(), &stubSummarizer{}, &stubExporter{}, archive, nil)
	report, err := p.Analyze(context.Background(), "https://shop.example/item", 1)
	require.NoError(t, err)
	require.Equal(t, "output/cleaned_reviews.xlsx", report.ExportPath)

	require.Empty(t, archive.finished)
	require.Equal(t, []string{"value too long for type character varying(16)"}, archive.failed)
}

func TestBuildTextBlock(t *testing.T) {
	cleaned := make([]string, 31)
	for i := range cleaned {
		cleaned[i] = fmt.Sprintf("r%d", i)
	}

	block := BuildTextBlock(cleaned, MaxPromptReviews)
	require.True(t, strings.HasPrefix(block, "r0\nr1\n"))
	require.True(t, strings.HasSuffix(block, "\nr29"))
	require.NotContains(t, block, "r30")

	require.Equal(t, "a\nb", BuildTextBlock([]string{"a", "b"}, MaxPromptReviews))
	require.Empty(t, BuildTextBlock(nil, MaxPromptReviews))
}
