// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihandler "github.com/quantgeo/gannwheel/internal/api/handler/api"
	"github.com/quantgeo/gannwheel/internal/api/job"
	"github.com/quantgeo/gannwheel/internal/api/middleware"
	"github.com/quantgeo/gannwheel/internal/batch"
	"github.com/quantgeo/gannwheel/internal/config"
	"github.com/quantgeo/gannwheel/internal/gann"
	"github.com/quantgeo/gannwheel/internal/metrics"
	"github.com/quantgeo/gannwheel/internal/storage/archive"
	"github.com/quantgeo/gannwheel/internal/storage/result"
	"github.com/quantgeo/gannwheel/internal/volprice"
)

// Server is the HTTP front end over both analysis engines.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux

	cfg      *config.Config
	metrics  *metrics.Registry
	jobStore *job.Store
	results  result.Store
	archiver *archive.Archiver
}

// NewServer creates a new HTTP server. archiver may be nil when
// archiving is disabled.
func NewServer(cfg *config.Config, archiver *archive.Archiver, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:   logger,
		mux:      mux,
		cfg:      cfg,
		metrics:  metrics.NewRegistry(),
		jobStore: job.NewStore(cfg.Server.MaxJobs, time.Duration(cfg.Server.JobTTLHours)*time.Hour),
		results:  result.NewMemoryStore(),
		archiver: archiver,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() error {
	gannAnalyzer, err := gann.NewAnalyzer(s.cfg.Analysis.Gann)
	if err != nil {
		return err
	}
	volAnalyzer, err := volprice.NewAnalyzer(s.cfg.Analysis.VolumePrice)
	if err != nil {
		return err
	}

	timeCycles := s.cfg.Analysis.Gann.TimeCycles
	coordinator := batch.NewCoordinator(gannAnalyzer, volAnalyzer, timeCycles, s.cfg.Batch.Workers, s.logger)

	analysisHandler := apihandler.NewAnalysisHandler(
		gannAnalyzer, volAnalyzer, timeCycles, s.results, s.archiver, s.metrics, s.logger)
	batchHandler := apihandler.NewBatchHandler(s.jobStore, coordinator, s.results, s.metrics, s.logger)
	resultsHandler := apihandler.NewResultsHandler(s.results)

	auth := middleware.APIKeyAuth(s.cfg.Server.APIKey)
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	s.mux.Handle("POST /api/v1/analyze", protected(analysisHandler.Analyze))
	s.mux.Handle("POST /api/v1/batch", protected(batchHandler.Create))
	s.mux.Handle("GET /api/v1/jobs/{id}", protected(func(w http.ResponseWriter, r *http.Request) {
		batchHandler.GetStatus(w, r, r.PathValue("id"))
	}))
	s.mux.Handle("GET /api/v1/results", protected(resultsHandler.List))
	s.mux.Handle("GET /api/v1/results/{symbol}", protected(func(w http.ResponseWriter, r *http.Request) {
		resultsHandler.GetBySymbol(w, r, r.PathValue("symbol"))
	}))

	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)

	if s.cfg.Metrics.Enabled {
		s.mux.Handle("GET "+s.cfg.Metrics.Path,
			promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}

	// Record request metrics across all routes
	s.httpServer.Handler = metrics.HTTPMiddleware(s.metrics)(s.mux)

	return nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
