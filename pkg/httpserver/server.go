// Package httpserver provides the HTTP shell around the MCP transports:
// routing, health checking, and the read-only REST conveniences.
package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wilhg/filemcp/pkg/auditstore"
	"github.com/wilhg/filemcp/pkg/errmodel"
	"github.com/wilhg/filemcp/pkg/logging"
	"github.com/wilhg/filemcp/pkg/mcpserver"
	"github.com/wilhg/filemcp/pkg/tool"
)

// ShutdownTimeout bounds graceful shutdown on context cancellation.
const ShutdownTimeout = 10 * time.Second

// Config contains the HTTP shell configuration.
type Config struct {
	Addr    string
	Version string
}

// Server wires the MCP transports and the REST surface into one router.
type Server struct {
	cfg    Config
	router *chi.Mux
	audit  *auditstore.Store
}

// New constructs a Server with middleware and routes configured. audit may
// be nil; the audit endpoint then serves an empty list and the health check
// skips the database probe.
func New(cfg Config, m *mcpserver.Server, audit *auditstore.Store) *Server {
	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		audit:  audit,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	// No request timeout middleware: /sse holds a stream open for the
	// whole session.

	s.router.Method(http.MethodGet, "/healthz", s.healthHandler())

	// MCP transports. The SSE handler serves both the GET stream and the
	// per-session POST message endpoint it advertises.
	s.router.Handle("/sse", m.SSEHandler())
	s.router.Handle("/mcp", m.StreamableHandler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/tools", s.handleListTools)
		r.Get("/audit", s.handleAudit)
	})

	return s
}

// Router returns the root handler, wrapped for tracing.
func (s *Server) Router() http.Handler {
	return otelhttp.NewHandler(s.router, "filemcp.http")
}

func (s *Server) healthHandler() http.Handler {
	opts := []health.CheckerOption{}
	if s.audit != nil {
		opts = append(opts, health.WithCheck(health.Check{
			Name:    "audit-db",
			Timeout: 2 * time.Second,
			Check:   s.audit.Ping,
		}))
	}
	return health.NewHandler(health.NewChecker(opts...))
}

// handleListTools serves the catalog as JSON, in its fixed order.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"tools": tool.Catalog()})
}

// handleAudit serves the most recent invocations, newest first.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errmodel.WriteHTTP(w, r, errmodel.InvalidArgs("limit must be a positive integer", nil))
			return
		}
		limit = n
	}
	if s.audit == nil {
		writeJSON(w, map[string]any{"invocations": []auditstore.Invocation{}})
		return
	}
	invs, err := s.audit.Recent(r.Context(), limit)
	if err != nil {
		errmodel.WriteHTTP(w, r, err)
		return
	}
	if invs == nil {
		invs = []auditstore.Invocation{}
	}
	writeJSON(w, map[string]any{"invocations": invs})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Serve runs the shell until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	log := logging.GetLogger().With("addr", s.cfg.Addr)
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router(),
	}

	errChan := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	wg.Wait()
	return err
}
