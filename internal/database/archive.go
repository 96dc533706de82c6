package database

import (
	"time"

	"gorm.io/gorm"

	"reviewAnalyzer/internal/models"
)

// Archive сохраняет запуски конвейера через RunRepository.
type Archive struct {
	db   *gorm.DB
	repo *RunRepository
}

func NewArchive(db *gorm.DB) *Archive {
	return &Archive{db: db, repo: NewRunRepository(db)}
}

func (a *Archive) Repository() *RunRepository {
	return a.repo
}

func (a *Archive) StartRun(url string, pages int) (uint, error) {
	run := AnalysisRun{
		URL:            url,
		RequestedPages: pages,
		Status:         RunStatusRunning,
	}
	if err := a.repo.CreateRun(&run); err != nil {
		return 0, err
	}
	return run.ID, nil
}

// FinishRun сохраняет отзывы и итог запуска в одной транзакции.
func (a *Archive) FinishRun(id uint, session *models.ScrapeSession, summary, exportPath string) error {
	result := resultOf(session)
	result.Summary = summary
	result.ExportPath = exportPath

	return a.db.Transaction(func(tx *gorm.DB) error {
		repo := a.repo.withTx(tx)
		if err := repo.SaveReviews(ReviewRows(id, session)); err != nil {
			return err
		}
		return repo.CompleteRun(id, result)
	})
}

func (a *Archive) FailRun(id uint, session *models.ScrapeSession, reason string) error {
	return a.repo.FailRun(id, resultOf(session), reason)
}

func resultOf(session *models.ScrapeSession) RunResult {
	result := RunResult{FinishedAt: time.Now()}
	if session == nil {
		return result
	}

	result.PagesScraped = session.PagesScraped
	result.RecordCount = len(session.Records)
	result.Termination = string(session.Termination)
	if !session.FinishedAt.IsZero() {
		result.FinishedAt = session.FinishedAt
	}
	return result
}

// ReviewRows переводит записи запуска в строки таблицы review_rows.
func ReviewRows(runID uint, session *models.ScrapeSession) []ReviewRow {
	if session == nil {
		return nil
	}
	rows := make([]ReviewRow, len(session.Records))
	for i, r := range session.Records {
		rows[i] = ReviewRow{
			RunID:         runID,
			Position:      i,
			Rating:        r.Rating,
			Title:         r.Title,
			Review:        r.Review,
			CleanedReview: r.CleanedReview,
		}
	}
	return rows
}
