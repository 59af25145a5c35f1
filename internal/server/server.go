// Package server provides the preview server: it renders a page file
// through a fresh Manager per request, serves the resulting head markup,
// and pushes a reload message over WebSocket whenever the page changes.
//
// Routes:
//
//	GET /           full preview page
//	GET /head       head markup only
//	GET /api/tags   resolved values and raw tags as JSON
//	GET /ws         live reload socket
//	GET /metrics    Prometheus metrics
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/conneroisu/seo/internal/config"
	"github.com/conneroisu/seo/internal/logging"
	"github.com/conneroisu/seo/internal/middleware"
	"github.com/conneroisu/seo/internal/render"
	"github.com/conneroisu/seo/internal/watcher"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the collaborators of a PreviewServer.
type Dependencies struct {
	Config     *config.Config
	NewManager middleware.ManagerFactory
	Views      *render.Views
	Logger     logging.Logger
	// Registry receives the server's metrics; a fresh one is used when nil.
	Registry *prometheus.Registry
}

// PreviewServer serves one page file.
type PreviewServer struct {
	config     *config.Config
	newManager middleware.ManagerFactory
	views      *render.Views
	logger     logging.Logger
	metrics    *metrics
	registry   *prometheus.Registry
	hub        *hub
	router     chi.Router

	mu         sync.Mutex
	httpServer *http.Server
	watcher    *watcher.FileWatcher
	listenAddr string
}

// New creates a preview server.
func New(deps Dependencies) *PreviewServer {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &PreviewServer{
		config:     deps.Config,
		newManager: deps.NewManager,
		views:      deps.Views,
		logger:     logger.WithComponent("server"),
		metrics:    newMetrics(registry),
		registry:   registry,
	}
	s.hub = newHub(s.logger, s.metrics)
	s.router = s.routes()
	return s
}

func (s *PreviewServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(s.logger))

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SEO(s.newManager, s.logger))
		r.Get("/", s.handlePreview)
		r.Get("/head", s.handleHead)
		r.Get("/api/tags", s.handleTags)
	})

	return r
}

// Handler returns the HTTP handler of the server.
func (s *PreviewServer) Handler() http.Handler {
	return s.router
}

// Addr returns the address the server listens on once started.
func (s *PreviewServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenAddr
}

// Start listens, watches the page file, and serves until ctx is done.
func (s *PreviewServer) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Preview.Host, strconv.Itoa(s.config.Preview.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = httpServer
	s.listenAddr = listener.Addr().String()
	s.mu.Unlock()

	if err := s.watchPage(ctx); err != nil {
		s.logger.Warn(ctx, err, "Live reload disabled", "page", s.config.Preview.Page)
	}

	s.logger.Info(ctx, "Preview server started", "addr", s.listenAddr, "page", s.config.Preview.Page)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

func (s *PreviewServer) watchPage(ctx context.Context) error {
	if _, err := os.Stat(s.config.Preview.Page); err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(100*time.Millisecond, s.logger)
	if err != nil {
		return err
	}
	if err := fw.AddFile(s.config.Preview.Page); err != nil {
		_ = fw.Stop()
		return err
	}
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		s.logger.Info(ctx, "Page changed", "change", watcher.Describe(events))
		s.Reload()
		return nil
	})
	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return err
	}

	s.mu.Lock()
	s.watcher = fw
	s.mu.Unlock()
	return nil
}

// Reload tells every connected browser to reload.
func (s *PreviewServer) Reload() {
	s.metrics.reloads.Inc()
	s.hub.broadcast([]byte("reload"))
}

// Shutdown stops the watcher, closes sockets, and stops the HTTP server.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	httpServer := s.httpServer
	fw := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if fw != nil {
		if err := fw.Stop(); err != nil {
			s.logger.Warn(ctx, err, "Failed to stop watcher")
		}
	}
	s.hub.closeAll()

	if httpServer == nil {
		return nil
	}
	return httpServer.Shutdown(ctx)
}

// metrics holds the server's Prometheus collectors.
type metrics struct {
	renders      *prometheus.CounterVec
	renderErrors *prometheus.CounterVec
	reloads      prometheus.Counter
	clients      prometheus.Gauge
}

func newMetrics(registry *prometheus.Registry) *metrics {
	m := &metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seo",
			Subsystem: "preview",
			Name:      "renders_total",
			Help:      "Pages rendered by route.",
		}, []string{"route"}),
		renderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seo",
			Subsystem: "preview",
			Name:      "render_errors_total",
			Help:      "Failed renders by route.",
		}, []string{"route"}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seo",
			Subsystem: "preview",
			Name:      "reloads_total",
			Help:      "Reload broadcasts sent to browsers.",
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seo",
			Subsystem: "preview",
			Name:      "websocket_clients",
			Help:      "Connected live reload clients.",
		}),
	}
	registry.MustRegister(m.renders, m.renderErrors, m.reloads, m.clients)
	return m
}
