// Package api exposes the tracker over JSON/HTTP.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dori/punch/internal/auth"
	"github.com/dori/punch/internal/tracker"
	"github.com/rs/zerolog"
)

// Services are the domain services the handlers call into.
type Services struct {
	Auth     *auth.Service
	Projects *tracker.ProjectService
	Tasks    *tracker.TaskService
	Reports  *tracker.Reporter
}

// Server routes HTTP requests to the services.
type Server struct {
	svc     Services
	log     zerolog.Logger
	handler http.Handler
}

// NewServer builds the router.
func NewServer(svc Services, log zerolog.Logger) *Server {
	s := &Server{svc: svc, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/users/login", s.handleLogin)
	mux.HandleFunc("POST /api/users/logout", s.authed(s.handleLogout))
	mux.HandleFunc("GET /api/users/profile", s.authed(s.handleGetProfile))
	mux.HandleFunc("PUT /api/users/profile", s.authed(s.handleUpdateProfile))
	mux.HandleFunc("DELETE /api/users/profile", s.authed(s.handleDeleteProfile))

	mux.HandleFunc("POST /api/projects", s.authed(s.handleCreateProject))
	mux.HandleFunc("GET /api/projects", s.authed(s.handleListProjects))
	mux.HandleFunc("GET /api/projects/{id}", s.authed(s.handleGetProject))
	mux.HandleFunc("PUT /api/projects/{id}", s.authed(s.handleUpdateProject))
	mux.HandleFunc("DELETE /api/projects/{id}", s.authed(s.handleDeleteProject))

	mux.HandleFunc("POST /api/tasks/{projectId}", s.authed(s.handleCreateTask))
	mux.HandleFunc("GET /api/tasks", s.authed(s.handleListTasks))
	mux.HandleFunc("GET /api/tasks/{id}", s.authed(s.handleGetTask))
	mux.HandleFunc("PUT /api/tasks/{id}", s.authed(s.handleUpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.authed(s.handleDeleteTask))
	mux.HandleFunc("POST /api/tasks/{id}/start", s.authed(s.handleStartTimer))
	mux.HandleFunc("POST /api/tasks/{id}/stop", s.authed(s.handleStopTimer))

	mux.HandleFunc("GET /api/reports/task-stats", s.authed(s.handleTaskStats))
	mux.HandleFunc("GET /api/reports/time-spent", s.authed(s.handleTimeSpent))
	mux.HandleFunc("GET /api/reports/project-summary", s.authed(s.handleProjectSummary))
	mux.HandleFunc("GET /api/reports/activity", s.authed(s.handleActivity))

	s.handler = s.recoverer(s.logRequests(mux))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
