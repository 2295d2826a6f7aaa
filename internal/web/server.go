// Package web serves the garage REST API backed by SQLite.
package web

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/evcraddock/garage/internal/auth"
	"github.com/evcraddock/garage/internal/catalog"
	"github.com/evcraddock/garage/internal/logging"
	"github.com/evcraddock/garage/internal/vehicle"
	"github.com/evcraddock/garage/internal/visit"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server is the garage API server.
type Server struct {
	vehicles *vehicle.Repository
	visits   *visit.Repository
	catalog  *catalog.Repository
	router   chi.Router
}

// NewServer creates an API server over db. Every route except /health
// requires a bearer token known to tokens.
func NewServer(db *sql.DB, tokens *auth.TokenStore) *Server {
	s := &Server{
		vehicles: vehicle.NewRepository(db),
		visits:   visit.NewRepository(db),
		catalog:  catalog.NewRepository(db),
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		logging.RequestLogger,
		func(next http.Handler) http.Handler { return auth.RequireToken(tokens, next) },
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/models", s.handleListModels)
	r.Post("/vehicles", s.handleCreateVehicle)
	r.Get("/vehicles/{id}", s.handleGetVehicle)
	r.Put("/vehicles/{id}", s.handleUpdateVehicle)
	r.Post("/visits", s.handleCreateVisit)
	r.Get("/visits/{id}", s.handleGetVisit)
	r.Put("/visits/{id}", s.handleUpdateVisit)
	r.Get("/services", s.handleListServices)
	r.Get("/parts", s.handleListParts)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.L().Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logging.L().Info("shutting down")
	sdCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sdCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
