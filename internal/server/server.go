package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nao1215/scholarshield/internal/database"
	"github.com/nao1215/scholarshield/internal/dataset"
	"github.com/nao1215/scholarshield/internal/model"
	"github.com/nao1215/scholarshield/internal/pipeline"
)

// Limits applied to requests.
const (
	// DefaultMaxBodySize caps request bodies at 1 MiB.
	DefaultMaxBodySize = 1 << 20

	// MaxBatchItems caps the number of inputs in one batch request.
	MaxBatchItems = 100

	// DefaultShutdownTimeout bounds graceful shutdown in Run.
	DefaultShutdownTimeout = 10 * time.Second
)

// HistoryStore is the part of the history database the API uses.
// *database.HistoryDB satisfies it.
type HistoryStore interface {
	SaveScanReport(ctx context.Context, report *model.ScanReport) (int64, error)
	GetScanHistoryWithMetadata(ctx context.Context, domain string) ([]database.ScanReportMetadata, error)
}

// Server is the HTTP API surface of the scanner.
type Server struct {
	dataset         *dataset.Dataset
	history         HistoryStore
	logger          *slog.Logger
	metrics         *Metrics
	router          chi.Router
	maxBodySize     int64
	concurrency     int
	shutdownTimeout time.Duration
	readTimeout     time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithHistory stores every scan in h and enables the history route.
func WithHistory(h HistoryStore) Option {
	return func(s *Server) {
		s.history = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxBodySize sets the request body limit in bytes.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

// WithConcurrency sets the number of parallel scans for batch requests.
func WithConcurrency(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithShutdownTimeout sets how long Run waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithReadHeaderTimeout sets http.Server.ReadHeaderTimeout used by Run.
func WithReadHeaderTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

// New creates a Server scanning against ds. A nil ds is treated as empty.
func New(ds *dataset.Dataset, opts ...Option) *Server {
	if ds == nil {
		ds = dataset.Empty()
	}

	s := &Server{
		dataset:         ds,
		logger:          slog.Default(),
		metrics:         NewMetrics(),
		router:          chi.NewRouter(),
		maxBodySize:     DefaultMaxBodySize,
		concurrency:     pipeline.DefaultConcurrency,
		shutdownTimeout: DefaultShutdownTimeout,
		readTimeout:     10 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.metrics.Middleware)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/scan", s.handleScan)
		r.Post("/scan/batch", s.handleScanBatch)
		r.Get("/history/{domain}", s.handleHistory)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Metrics returns the collectors of this server.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: s.readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// newPipeline builds the scan pipeline for one request.
func (s *Server) newPipeline() *pipeline.Pipeline {
	return pipeline.DefaultPipeline(s.dataset, pipeline.WithLogger(s.logger))
}

// record updates metrics and stores the report. Storage failures are
// logged and never fail the request.
func (s *Server) record(ctx context.Context, report *model.ScanReport) {
	s.metrics.ObserveScan(report)

	if s.history == nil || report == nil || !report.IsComplete() {
		return
	}
	if _, err := s.history.SaveScanReport(ctx, report); err != nil {
		s.logger.Warn("failed to save scan report", "scan_id", report.ID, "error", err)
	}
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBodySize)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
