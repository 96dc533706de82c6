// Package database хранит архив запусков анализа в PostgreSQL через GORM.
package database

import "time"

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// AnalysisRun - один запуск анализа товара.
type AnalysisRun struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	URL            string     `gorm:"type:text;not null" json:"url"`
	RequestedPages int        `gorm:"not null;default:0" json:"requested_pages"`
	PagesScraped   int        `gorm:"not null;default:0" json:"pages_scraped"`
	RecordCount    int        `gorm:"not null;default:0" json:"record_count"`
	Termination    string     `gorm:"type:varchar(32)" json:"termination"`
	Status         string     `gorm:"type:varchar(16);not null;default:'running'" json:"status"`
	Summary        string     `gorm:"type:text" json:"summary"`
	ExportPath     string     `gorm:"type:text" json:"export_path"`
	Error          string     `gorm:"type:text" json:"error,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ReviewRow - отзыв из запуска. Position повторяет порядок извлечения.
type ReviewRow struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RunID         uint      `gorm:"index;not null" json:"run_id"`
	Position      int       `gorm:"not null" json:"position"`
	Rating        string    `gorm:"type:text" json:"rating"`
	Title         string    `gorm:"type:text" json:"title"`
	Review        string    `gorm:"type:text;not null" json:"review"`
	CleanedReview string    `gorm:"type:text" json:"cleaned_review"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// LlmLog - запрос к модели и ее ответ.
type LlmLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RunID        *uint     `gorm:"index" json:"run_id,omitempty"`
	Role         string    `gorm:"type:varchar(16);not null" json:"role"`
	PromptText   string    `gorm:"type:text;not null" json:"prompt_text"`
	ResponseText string    `gorm:"type:text" json:"response_text"`
	Model        string    `gorm:"type:varchar(64)" json:"model"`
	TokensUsed   int       `json:"tokens_used"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
