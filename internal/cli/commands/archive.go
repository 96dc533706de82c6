package commands

import "reviewAnalyzer/internal/database"

// Archive - чтение архива запусков.
type Archive interface {
	ListRuns(limit, offset int) ([]database.AnalysisRun, error)
	GetRunByID(id uint) (*database.AnalysisRun, error)
	GetReviewsByRunID(runID uint) ([]database.ReviewRow, error)
	GetLLMLogsByRunID(runID uint) ([]database.LlmLog, error)
}
