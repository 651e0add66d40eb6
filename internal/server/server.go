// Package server provides the HTTP API for mailroom.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailroom/internal/analysis"
	"github.com/fyrsmithlabs/mailroom/internal/config"
	"github.com/fyrsmithlabs/mailroom/internal/feedback"
	"github.com/fyrsmithlabs/mailroom/internal/triage"
)

// Server provides HTTP endpoints over the triage service.
type Server struct {
	echo    *echo.Echo
	triage  triage.Service
	logger  *zap.Logger
	config  config.ServerConfig
	metrics prometheus.Gatherer
}

// NewServer creates a new HTTP server. A nil gatherer disables /metrics.
func NewServer(svc triage.Service, logger *zap.Logger, cfg config.ServerConfig, metrics prometheus.Gatherer) (*Server, error) {
	if svc == nil {
		return nil, errors.New("triage service is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:    e,
		triage:  svc,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(
			promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/api/v1")
	v1.POST("/analyze", s.handleAnalyze)
	v1.POST("/analyze/batch", s.handleAnalyzeBatch)
	v1.GET("/results/:id", s.handleResult)
	v1.POST("/results/:id/feedback", s.handleFeedback)
	v1.GET("/search", s.handleSearch)
	v1.GET("/learning", s.handleLearning)
}

// FeedbackRequest is the request body for POST /api/v1/results/:id/feedback.
type FeedbackRequest struct {
	Message string `json:"message"`
}

// BatchRequest is the request body for POST /api/v1/analyze/batch.
type BatchRequest struct {
	Emails []analysis.Email `json:"emails"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var email analysis.Email
	if err := c.Bind(&email); err != nil {
		s.logger.Warn("invalid analyze request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.triage.Analyze(c.Request().Context(), email, nil)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return echo.NewHTTPError(http.StatusRequestTimeout, "analysis cancelled")
		}
		s.logger.Error("analysis failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "analysis failed")
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleAnalyzeBatch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Emails) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "emails field is required")
	}

	results, err := s.triage.AnalyzeBatch(c.Request().Context(), req.Emails, nil)
	if err != nil {
		s.logger.Error("batch analysis failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "batch analysis failed")
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleResult(c echo.Context) error {
	result, err := s.triage.Result(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, analysis.ErrResultNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "result not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleFeedback(c echo.Context) error {
	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	outcome, err := s.triage.SubmitFeedback(c.Request().Context(), c.Param("id"), req.Message)
	if err != nil {
		if errors.Is(err, feedback.ErrStaleTarget) {
			return echo.NewHTTPError(http.StatusGone, "result no longer exists")
		}
		s.logger.Error("feedback failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "feedback failed")
	}
	return c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleSearch(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q parameter is required")
	}
	k := 0
	if raw := c.QueryParam("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "k must be an integer")
		}
		k = parsed
	}

	results, err := s.triage.Search(c.Request().Context(), query, k)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleLearning(c echo.Context) error {
	return c.JSON(http.StatusOK, s.triage.LearningMetrics())
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
