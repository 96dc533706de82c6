// Package models описывает данные, которые проходят через конвейер анализа отзывов.
package models

import "time"

// NotAvailable подставляется вместо рейтинга или заголовка, если
// на позиции отзыва соответствующего элемента не нашлось.
const NotAvailable = "N/A"

// ReviewRecord - один отзыв со страницы товара.
// Идентичность позиционная: индекс внутри пачки извлечения страницы.
type ReviewRecord struct {
	Rating        string `json:"rating"`
	Title         string `json:"title"`
	Review        string `json:"review"`
	CleanedReview string `json:"cleaned_review"`
}

// TerminationCause - причина остановки пагинации.
type TerminationCause string

const (
	TerminationCapReached      TerminationCause = "cap_reached"
	TerminationNoNextControl   TerminationCause = "no_next_control"
	TerminationReviewsTimeout  TerminationCause = "reviews_timeout"
	TerminationNextClickFailed TerminationCause = "next_click_failed"
	TerminationContentFailed   TerminationCause = "content_failed"
	TerminationLoadFailed      TerminationCause = "load_failed"
	TerminationLaunchFailed    TerminationCause = "launch_failed"
	TerminationCancelled       TerminationCause = "cancelled"
)

// ScrapeSession живет только в пределах одного запуска скрапинга.
type ScrapeSession struct {
	URL            string           `json:"url"`
	RequestedPages int              `json:"requested_pages"`
	PagesScraped   int              `json:"pages_scraped"`
	Records        []ReviewRecord   `json:"records"`
	Termination    TerminationCause `json:"termination"`
	StartedAt      time.Time        `json:"started_at"`
	FinishedAt     time.Time        `json:"finished_at"`
}
