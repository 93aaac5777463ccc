// Package api exposes the analytics engine over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teampulse/teampulse/pkg/analytics"
	"github.com/teampulse/teampulse/pkg/logging"
	"github.com/teampulse/teampulse/pkg/narrator"
	"github.com/teampulse/teampulse/pkg/storage"
)

// Server wires the engine, store and narrator behind a chi router.
type Server struct {
	engine   *analytics.Engine
	store    *storage.Store
	narrator *narrator.Narrator
	log      *logging.Logger
	httpSrv  *http.Server
}

// NewServer builds the HTTP server. The narrator may be disabled but must
// not be nil.
func NewServer(addr string, engine *analytics.Engine, store *storage.Store, n *narrator.Narrator, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	if n == nil {
		n = narrator.Disabled()
	}

	s := &Server{
		engine:   engine,
		store:    store,
		narrator: n,
		log:      log,
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(s.recoverMiddleware)
	router.Use(s.corsMiddleware)
	router.Use(s.metricsMiddleware)

	router.Get("/healthz", s.handleHealthz)
	router.Get("/readyz", s.handleReadyz)
	router.Method("GET", "/metrics", promhttp.Handler())

	router.Route("/api/v1/{owner}", func(r chi.Router) {
		r.Get("/cadence/due", s.handleCadenceDue)
		r.Get("/teams/{teamID}/metrics", s.handleTeamMetrics)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/insights", s.handleInsights)

		r.Post("/teams", s.handleCreateTeam)
		r.Post("/employees", s.handleCreateEmployee)
		r.Post("/work-areas", s.handleCreateWorkArea)
		r.Post("/actions", s.handleCreateAction)
		r.Patch("/actions/{actionID}/status", s.handleUpdateActionStatus)
		r.Post("/events", s.handleCreateEvent)
		r.Post("/one-on-ones", s.handleCreateOneOnOne)
		r.Post("/cadence-rules", s.handleCreateCadenceRule)
	})

	return router
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start serves HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info(logging.CategoryAPI, "server_start", "listening", map[string]any{
		"address": s.httpSrv.Addr,
	})
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(); err != nil {
			respondError(w, http.StatusServiceUnavailable, err)
			return
		}
	}
	respondJSON(w, map[string]any{"status": "ready"})
}
