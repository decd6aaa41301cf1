package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/SmitUplenchwar2687/schedboard/internal/dashboard"
	"github.com/SmitUplenchwar2687/schedboard/internal/metrics"
)

// Server serves a mounted dashboard view to browsers.
type Server struct {
	httpServer *http.Server
	view       *dashboard.View
	hub        *Hub
	metrics    *metrics.Metrics
	log        *zap.Logger
	router     chi.Router
}

// New creates a server for view. Page changes are pushed to browsers over
// /ws. m and log may be nil.
func New(addr string, view *dashboard.View, m *metrics.Metrics, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		view:    view,
		hub:     NewHub(view.Page, m, log),
		metrics: m,
		log:     log,
		router:  chi.NewRouter(),
	}
	view.OnChange(s.hub.Broadcast)
	s.routes()
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(AccessLog(s.log))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard/", http.StatusFound)
	})
	r.Get("/dashboard/", s.handleDashboard)
	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.hub.HandleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", s.handleView)
		r.Post("/panels/{id}/select", s.handleSelect)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the browser push hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderDashboard(w, s.view.Page()); err != nil {
		s.log.Error("rendering dashboard", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.view.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"loading": state.Loading,
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view.Page())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "panel id must be a positive integer")
		return
	}

	_, err = s.view.SelectPanel(r.Context(), id)
	switch {
	case errors.Is(err, dashboard.ErrNotMounted):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		// Focus changed in memory but was not persisted.
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.view.Page())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.StartOnListener(ln)
}

// StartOnListener begins serving on the provided listener.
// Useful for tests that need to pick an ephemeral port.
func (s *Server) StartOnListener(ln net.Listener) error {
	s.log.Info("schedboard server listening", zap.String("addr", ln.Addr().String()))
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server and disconnects browsers.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.hub.CloseAll()
	return err
}
