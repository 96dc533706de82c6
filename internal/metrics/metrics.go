// Package metrics собирает счетчики Prometheus для анализа отзывов.
// Все методы безопасны для nil-получателя, поэтому компоненты работают и без метрик.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry         *prometheus.Registry
	PagesScraped     prometheus.Counter
	RecordsExtracted prometheus.Counter
	RecordsSkipped   prometheus.Counter
	OptionalMissed   *prometheus.CounterVec
	Terminations     *prometheus.CounterVec
	Summaries        *prometheus.CounterVec
	SummaryDuration  prometheus.Histogram
}

// New регистрирует все метрики в отдельном реестре.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "review_pages_scraped_total",
		Help: "Total review pages processed by the navigator.",
	})
	extracted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "review_records_extracted_total",
		Help: "Total review records extracted from pages.",
	})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "review_records_skipped_total",
		Help: "Review blocks skipped because their text container was missing.",
	})
	missed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "review_optional_steps_missed_total",
		Help: "Optional navigation steps whose control was not found.",
	}, []string{"step"})
	terminations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "review_scrape_terminations_total",
		Help: "Scrape sessions by termination cause.",
	}, []string{"cause"})
	summaries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "review_summaries_total",
		Help: "Summarization calls by outcome.",
	}, []string{"status"})
	summaryDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "review_summary_duration_seconds",
		Help:    "Latency of summarization calls.",
		Buckets: prometheus.DefBuckets,
	})

	registry.MustRegister(pages, extracted, skipped, missed, terminations, summaries, summaryDuration)

	return &Metrics{
		Registry:         registry,
		PagesScraped:     pages,
		RecordsExtracted: extracted,
		RecordsSkipped:   skipped,
		OptionalMissed:   missed,
		Terminations:     terminations,
		Summaries:        summaries,
		SummaryDuration:  summaryDuration,
	}
}

func (m *Metrics) IncPage() {
	if m == nil {
		return
	}
	m.PagesScraped.Inc()
}

func (m *Metrics) AddRecords(extracted, skipped int) {
	if m == nil {
		return
	}
	m.RecordsExtracted.Add(float64(extracted))
	m.RecordsSkipped.Add(float64(skipped))
}

func (m *Metrics) IncOptionalMissed(step string) {
	if m == nil {
		return
	}
	m.OptionalMissed.WithLabelValues(step).Inc()
}

func (m *Metrics) IncTermination(cause string) {
	if m == nil {
		return
	}
	m.Terminations.WithLabelValues(cause).Inc()
}

// ObserveSummary учитывает вызов суммаризации; status - "ok" или "error".
func (m *Metrics) ObserveSummary(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Summaries.WithLabelValues(status).Inc()
	m.SummaryDuration.Observe(d.Seconds())
}

// Handler отдает метрики реестра в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
