// Package server exposes compiled scenes over HTTP so that timelines,
// individual frames and finished trees can be inspected in a browser
// without encoding a video.
//
// Routes:
//
//	GET /healthz                     liveness probe
//	GET /metrics                     Prometheus metrics
//	GET /scenes                      registered scenes and their datasets
//	GET /scenes/{name}/timeline      compiled timeline as JSON
//	GET /scenes/{name}/frame.svg     one frame; ?t=seconds (default: last)
//	GET /scenes/{name}/tree.svg      the final BST drawn by Graphviz (bst only)
//
// Scene routes accept ?values=5,3,8 to override the dataset.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/algoreel/pkg/config"
	"github.com/matzehuels/algoreel/pkg/observability"
	"github.com/matzehuels/algoreel/pkg/pipeline"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Server serves scene previews.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *metrics
	router  chi.Router

	mu  sync.RWMutex
	cfg config.Config
}

// New creates a server that compiles scenes with runner. cfg supplies the
// per-scene dataset overrides and can be replaced later with [Server.SetConfig].
func New(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		metrics: newMetrics(prometheus.NewRegistry()),
		cfg:     cfg,
	}
	s.router = s.routes()
	return s
}

// SetConfig swaps the active configuration. It is safe to call while
// requests are being served.
func (s *Server) SetConfig(cfg config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.metrics.reloads.Inc()
	s.logger.Info("config reloaded", "scenes", len(cfg.Scenes))
}

func (s *Server) config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// RegisterHooks routes pipeline and cache events from every runner in the
// process into this server's metrics.
func (s *Server) RegisterHooks() {
	observability.Register(s.metrics)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/scenes", func(r chi.Router) {
		r.Get("/", s.handleScenes)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/timeline", s.handleTimeline)
			r.Get("/frame.svg", s.handleFrame)
			r.Get("/tree.svg", s.handleTree)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// instrument logs each request and feeds the request metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.observe(route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"id", middleware.GetReqID(r.Context()))
	})
}
