// Package server exposes the planner and progress engine over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/example/dailyquest/internal/gateway"
	"github.com/example/dailyquest/internal/planner"
)

type RouteDoc struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	Summary string `json:"summary,omitempty"`
}

type Server struct {
	game    *gateway.Service
	planner *planner.Planner
	logger  *log.Logger
	routes  []RouteDoc
	mux     *http.ServeMux
}

func New(game *gateway.Service, p *planner.Planner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stderr, "http: ", log.LstdFlags)
	}
	s := &Server{
		game:    game,
		planner: p,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.handle("GET /healthz", "liveness probe", s.health)
	s.handle("GET /api/routes", "list routes", s.listRoutes)

	s.handle("GET /api/game", "progress overview", s.getGame)
	s.handle("POST /api/game", "apply a game action", s.postGame)

	s.handle("GET /api/tasks", "tasks of a day", s.listTasks)
	s.handle("POST /api/tasks", "add a task", s.createTask)
	s.handle("POST /api/tasks/tomorrow", "add a task for tomorrow", s.createTomorrowTask)
	s.handle("POST /api/tasks/toggle", "set task completion", s.toggleTask)
	s.handle("POST /api/tasks/delete", "delete a task", s.deleteTask)

	s.handle("GET /api/mood", "moods by date or range", s.getMood)
	s.handle("POST /api/mood", "record a mood", s.postMood)
	s.handle("GET /api/mood/curve", "mood curve", s.moodCurve)

	s.handle("GET /api/stats", "30 day summary", s.getStats)
	s.handle("GET /api/contribution", "one year heatmap", s.getContribution)
}

func (s *Server) handle(methodAndPattern, summary string, h http.HandlerFunc) {
	method, pattern, _ := strings.Cut(methodAndPattern, " ")
	s.routes = append(s.routes, RouteDoc{Method: method, Pattern: pattern, Summary: summary})
	s.mux.HandleFunc(methodAndPattern, h)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) listRoutes(w http.ResponseWriter, _ *http.Request) {
	out := make([]RouteDoc, len(s.routes))
	copy(out, s.routes)
	writeJSON(w, http.StatusOK, out)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(out)
}

// writeFailure maps domain errors onto status codes. Unexpected errors are logged
// and reported with a generic message.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, planner.ErrInvalidInput):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, planner.ErrTaskNotFound), errors.Is(err, gateway.ErrTaskNotFound):
		writeErr(w, http.StatusNotFound, "task not found")
	case errors.Is(err, planner.ErrMoodNotFound):
		writeErr(w, http.StatusNotFound, "mood not found")
	case errors.Is(err, gateway.ErrConcurrentUpdate):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		s.logger.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, planner.ErrMoodNotFound) || errors.Is(err, planner.ErrTaskNotFound)
}
