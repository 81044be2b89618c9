package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agenthands/veritas/internal/archive"
	"github.com/agenthands/veritas/internal/core"
	"github.com/agenthands/veritas/internal/core/model"
)

// StatusClientClosedRequest is reported when the caller went away mid-run.
const StatusClientClosedRequest = 499

const archiveTimeout = 5 * time.Second

// Archiver stores finished reports. *archive.Archive implements it.
type Archiver interface {
	Save(ctx context.Context, report *model.Report) error
	Get(ctx context.Context, runID string) (*model.Report, error)
	Recent(ctx context.Context, limit int) ([]archive.RunSummary, error)
}

type Server struct {
	Verifier *core.Verifier
	// Pipeline runs /analyze; its Retriever is replaced per request by the
	// evidence the caller supplies.
	Pipeline *core.Pipeline
	Archive  Archiver

	closers []func()
}

// Close releases the connections opened by NewServer.
func (s *Server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/verify", s.Verify)
	r.POST("/analyze", s.Analyze)
	r.GET("/runs", s.ListRuns)
	r.GET("/runs/:id", s.GetRun)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "verifier_version": model.VerifierVersion})
}

func (s *Server) Verify(c *gin.Context) {
	var req core.VerifyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	report, err := s.Verifier.Verify(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	s.saveReport(c.Request.Context(), report)
	c.JSON(http.StatusOK, report)
}

type AnalyzeRequest struct {
	Text     string               `json:"text"`
	Evidence []model.EvidenceItem `json:"evidence"`
}

func (s *Server) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeError(c, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}
	if s.Pipeline == nil {
		writeError(c, http.StatusNotImplemented, "unavailable", "analysis pipeline is not configured")
		return
	}

	p := *s.Pipeline
	p.Retriever = core.PoolRetriever{Pool: req.Evidence}
	report, err := p.Run(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	s.saveReport(c.Request.Context(), report)
	c.JSON(http.StatusOK, report)
}

func (s *Server) GetRun(c *gin.Context) {
	if s.Archive == nil {
		writeError(c, http.StatusNotFound, "not_found", "archive is not configured")
		return
	}
	report, err := s.Archive.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, archive.ErrNotFound) {
		writeError(c, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to load run", "run_id", c.Param("id"), "error", err)
		writeError(c, http.StatusInternalServerError, "archive", "failed to load run")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) ListRuns(c *gin.Context) {
	if s.Archive == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []archive.RunSummary{}})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := s.Archive.Recent(c.Request.Context(), limit)
	if err != nil {
		slog.Error("failed to list runs", "error", err)
		writeError(c, http.StatusInternalServerError, "archive", "failed to list runs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// saveReport stores the report without letting a storage failure reach the
// caller.
func (s *Server) saveReport(ctx context.Context, report *model.Report) {
	if s.Archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if err := s.Archive.Save(ctx, report); err != nil {
		slog.Error("failed to archive report", "run_id", report.RunID, "error", err)
	}
}

func respondError(c *gin.Context, err error) {
	var verr *model.VerificationError
	switch {
	case errors.As(err, &verr):
		status := http.StatusInternalServerError
		if verr.Kind == model.KindInvalidClaimCount || verr.Kind == model.KindInvalidEvidence {
			status = http.StatusBadRequest
		}
		writeError(c, status, string(verr.Kind), verr.Reason)
	case errors.Is(err, context.Canceled):
		writeError(c, StatusClientClosedRequest, "cancelled", "verification was cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "timeout", "verification timed out")
	default:
		slog.Error("verification failed", "error", err)
		writeError(c, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeError(c *gin.Context, status int, kind, reason string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"kind": kind, "reason": reason}})
}
