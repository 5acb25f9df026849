package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agenthands/concord/internal/archive"
	"github.com/agenthands/concord/internal/core"
	"github.com/agenthands/concord/internal/core/brief"
	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/export"
	"github.com/agenthands/concord/internal/metrics"
)

const defaultRunLimit = 20

// Briefer writes an operator brief for a detection run.
type Briefer interface {
	Brief(ctx context.Context, groups []model.ConflictGroup, summary model.Summary) (*brief.Brief, error)
}

// RunArchive reads back archived runs.
type RunArchive interface {
	ListRuns(ctx context.Context, limit int) ([]archive.RunInfo, error)
	LoadRun(ctx context.Context, id string) (*model.Run, error)
}

type Server struct {
	Service *core.Service
	// Briefer and Archive are optional; their routes answer 503 without them.
	Briefer Briefer
	Archive RunArchive
	Logger  *zap.Logger
}

func NewServer(svc *core.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Service: svc, Logger: logger}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(metrics.GinMiddleware())

	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	conflicts := r.Group("/conflicts")
	conflicts.POST("/detect", s.Detect)
	conflicts.POST("/summary", s.Summary)
	conflicts.POST("/export", s.Export)
	conflicts.POST("/brief", s.Brief)
	conflicts.POST("/persist", s.Persist)

	r.GET("/runs", s.ListRuns)
	r.GET("/runs/:id", s.GetRun)

	return r
}

type DetectRequest struct {
	Records []model.Record `json:"records"`
}

func (s *Server) bind(c *gin.Context) ([]model.Record, bool) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return nil, false
	}
	return req.Records, true
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Detect(c *gin.Context) {
	records, ok := s.bind(c)
	if !ok {
		return
	}
	run := s.Service.Run(records)
	c.JSON(http.StatusOK, gin.H{"conflicts": run.Conflicts, "summary": run.Summary})
}

func (s *Server) Summary(c *gin.Context) {
	records, ok := s.bind(c)
	if !ok {
		return
	}
	run := s.Service.Run(records)
	c.JSON(http.StatusOK, gin.H{"summary": run.Summary})
}

func (s *Server) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records, ok := s.bind(c)
	if !ok {
		return
	}

	run := s.Service.Run(records)
	var buf bytes.Buffer
	if err := export.Write(&buf, export.NewDocument(run), format); err != nil {
		s.Logger.Error("Failed to export run", zap.String("run_id", run.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export conflicts"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="conflicts-%s.%s"`, run.ID, format.Extension()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (s *Server) Brief(c *gin.Context) {
	if s.Briefer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No LLM provider configured"})
		return
	}
	records, ok := s.bind(c)
	if !ok {
		return
	}

	run := s.Service.Run(records)
	b, err := s.Briefer.Brief(c.Request.Context(), run.Conflicts, run.Summary)
	if err != nil {
		s.Logger.Error("Failed to brief run", zap.String("run_id", run.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate brief"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"brief": b.Text, "focus": b.Focus, "summary": run.Summary})
}

func (s *Server) Persist(c *gin.Context) {
	records, ok := s.bind(c)
	if !ok {
		return
	}

	run, err := s.Service.Persist(c.Request.Context(), records)
	if err != nil {
		s.Logger.Error("Failed to persist run", zap.String("run_id", run.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist run", "runId": run.ID})
		return
	}
	s.Logger.Info("Persisted run",
		zap.String("run_id", run.ID),
		zap.Int("conflicts", run.Summary.TotalConflicts))
	c.JSON(http.StatusOK, gin.H{"runId": run.ID, "summary": run.Summary})
}

func (s *Server) ListRuns(c *gin.Context) {
	if s.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run archive not configured"})
		return
	}
	limit := defaultRunLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	runs, err := s.Archive.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.Logger.Error("Failed to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) GetRun(c *gin.Context) {
	if s.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run archive not configured"})
		return
	}
	id := c.Param("id")
	run, err := s.Archive.LoadRun(c.Request.Context(), id)
	if errors.Is(err, archive.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	if err != nil {
		s.Logger.Error("Failed to load run", zap.String("run_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run"})
		return
	}
	c.JSON(http.StatusOK, run)
}
