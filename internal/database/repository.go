package database

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) CreateRun(run *AnalysisRun) error {
	return r.db.Create(run).Error
}

// CompleteRun фиксирует итог успешного запуска.
func (r *RunRepository) CompleteRun(id uint, result RunResult) error {
	return r.db.Model(&AnalysisRun{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        RunStatusCompleted,
			"pages_scraped": result.PagesScraped,
			"record_count":  result.RecordCount,
			"termination":   result.Termination,
			"summary":       result.Summary,
			"export_path":   result.ExportPath,
			"finished_at":   result.FinishedAt,
		}).Error
}

func (r *RunRepository) FailRun(id uint, result RunResult, reason string) error {
	return r.db.Model(&AnalysisRun{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        RunStatusFailed,
			"pages_scraped": result.PagesScraped,
			"record_count":  result.RecordCount,
			"termination":   result.Termination,
			"error":         reason,
			"finished_at":   result.FinishedAt,
		}).Error
}

func (r *RunRepository) SaveReviews(rows []ReviewRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.CreateInBatches(rows, 100).Error
}

func (r *RunRepository) ListRuns(limit, offset int) ([]AnalysisRun, error) {
	var runs []AnalysisRun
	if err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *RunRepository) GetRunByID(id uint) (*AnalysisRun, error) {
	var run AnalysisRun
	if err := r.db.First(&run, id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepository) GetReviewsByRunID(runID uint) ([]ReviewRow, error) {
	var rows []ReviewRow
	if err := r.db.Where("run_id = ?", runID).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LogLLMRequest реализует llm.Logger.
func (r *RunRepository) LogLLMRequest(ctx context.Context, runID *uint, role, promptText, responseText, model string, tokensUsed int) error {
	return r.db.WithContext(ctx).Create(&LlmLog{
		RunID:        runID,
		Role:         role,
		PromptText:   promptText,
		ResponseText: responseText,
		Model:        model,
		TokensUsed:   tokensUsed,
	}).Error
}

func (r *RunRepository) GetLLMLogsByRunID(runID uint) ([]LlmLog, error) {
	var logs []LlmLog
	if err := r.db.Where("run_id = ?", runID).Order("id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// withTx возвращает репозиторий поверх транзакции.
func (r *RunRepository) withTx(tx *gorm.DB) *RunRepository {
	return &RunRepository{db: tx}
}

type RunResult struct {
	PagesScraped int
	RecordCount  int
	Termination  string
	Summary      string
	ExportPath   string
	FinishedAt   time.Time
}
