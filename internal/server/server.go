package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewAnalyzer/internal/config"
	"reviewAnalyzer/internal/database"
	"reviewAnalyzer/internal/export"
	"reviewAnalyzer/internal/logger"
	"reviewAnalyzer/internal/metrics"
	"reviewAnalyzer/internal/pipeline"
)

var ErrBusy = errors.New("анализ уже выполняется")

const defaultPages = 5

type Analyzer interface {
	Analyze(ctx context.Context, url string, pages int) (*pipeline.Report, error)
}

// RunStore - чтение архива запусков. nil, если архив не настроен.
type RunStore interface {
	ListRuns(limit, offset int) ([]database.AnalysisRun, error)
	GetRunByID(id uint) (*database.AnalysisRun, error)
	GetReviewsByRunID(runID uint) ([]database.ReviewRow, error)
	GetLLMLogsByRunID(runID uint) ([]database.LlmLog, error)
}

type Server struct {
	cfg      *config.Cfg
	log      *logger.Zap
	analyzer Analyzer
	runs     RunStore
	metrics  *metrics.Metrics

	// running не дает двум запускам идти одновременно.
	running sync.Mutex

	lastMu sync.RWMutex
	last   *pipeline.Report
}

func New(cfg *config.Cfg, log *logger.Zap, analyzer Analyzer, runs RunStore, m *metrics.Metrics) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		analyzer: analyzer,
		runs:     runs,
		metrics:  m,
	}
}

func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	// Простейший лог-мидлвар
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("HTTP",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	api.POST("/analyze", s.analyze)
	api.GET("/report/download", s.download)
	api.GET("/runs", s.listRuns)
	api.GET("/runs/:id", s.getRun)

	return r
}

func (s *Server) analyze(c *gin.Context) {
	var req struct {
		URL   string `json:"url" binding:"required"`
		Pages int    `json:"pages"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateURL(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := checkTarget(req.URL); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	if req.Pages <= 0 {
		req.Pages = defaultPages
	}

	if !s.running.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": ErrBusy.Error()})
		return
	}
	defer s.running.Unlock()

	report, err := s.analyzer.Analyze(c.Request.Context(), req.URL, req.Pages)
	switch {
	case errors.Is(err, pipeline.ErrNoReviews):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "отзывы не найдены", "report": report})
		return
	case err != nil:
		s.log.Error("Ошибка анализа", zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "report": report})
		return
	}

	s.lastMu.Lock()
	s.last = report
	s.lastMu.Unlock()

	c.JSON(http.StatusOK, report)
}

func (s *Server) download(c *gin.Context) {
	s.lastMu.RLock()
	report := s.last
	s.lastMu.RUnlock()

	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "отчет еще не сформирован"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="cleaned_reviews.xlsx"`)
	c.Status(http.StatusOK)
	if err := export.WriteTo(c.Writer, report.Records); err != nil {
		s.log.Error("Ошибка выгрузки отчета", zap.Error(err))
	}
}

func (s *Server) listRuns(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "архив не настроен"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	runs, err := s.runs.ListRuns(limit, offset)
	if err != nil {
		s.log.Error("db list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "архив не настроен"})
		return
	}

	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad id"})
		return
	}
	id := uint(id64)

	run, err := s.runs.GetRunByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	reviews, err := s.runs.GetReviewsByRunID(id)
	if err != nil {
		s.log.Error("db get reviews", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	logs, err := s.runs.GetLLMLogsByRunID(id)
	if err != nil {
		s.log.Error("db get llm logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"run": run, "reviews": reviews, "llm_logs": logs})
}

func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("некорректный URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("поддерживаются только http и https")
	}
	if u.Host == "" {
		return fmt.Errorf("в URL нет хоста")
	}
	return nil
}

// Run слушает адрес из конфигурации до отмены ctx.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.App.Host, s.cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("Сервер запущен", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("Остановка сервера")
		return srv.Shutdown(shutdownCtx)
	}
}
