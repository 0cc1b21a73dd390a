// Package api serves computed loads and conference documents over HTTP.
// Every request re-reads the sheet, so load indexes always refer to the
// sheet as it is now.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/Veraticus/loadboard/internal/engine"
	"github.com/Veraticus/loadboard/internal/metrics"
	"github.com/Veraticus/loadboard/internal/service"
)

// Server wires a row source and the engine to HTTP handlers.
type Server struct {
	source   service.RowSource
	engine   *engine.Engine
	renderer service.DocumentRenderer
	metrics  *metrics.Metrics
	logger   *slog.Logger
	timeout  time.Duration
}

// NewServer creates an API server. metrics may be nil.
func NewServer(source service.RowSource, eng *engine.Engine, renderer service.DocumentRenderer, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		source:   source,
		engine:   eng,
		renderer: renderer,
		metrics:  m,
		logger:   logger.With(slog.String("component", "api")),
		timeout:  60 * time.Second,
	}
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(middleware.Timeout(s.timeout))

		r.Get("/loads", s.listLoads)
		r.Get("/loads/{index}", s.getLoad)
		r.Get("/loads/{index}/pdf", s.getLoadPDF)
		r.Get("/categories", s.categories)
	})

	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// compute fetches the sheet and processes it, recording the run.
func (s *Server) compute(ctx context.Context) (*engine.Result, error) {
	start := time.Now()

	table, err := s.source.Fetch(ctx)
	var result *engine.Result
	if err == nil {
		result, err = s.engine.Process(ctx, table)
	}

	if s.metrics != nil {
		s.metrics.ObserveRun(time.Since(start), err)
		if err == nil {
			pending := result.Dashboard()
			s.metrics.SetLoads(pending.Loads, len(result.Completed()), pending.Totals.Cubage)
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
