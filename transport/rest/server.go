package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/entity"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/puzzle"
)

const (
	handlerTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type sessionUseCase interface {
	Start(ctx context.Context, cfg entity.Config) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	Move(ctx context.Context, id string, move entity.Move) (*entity.Session, puzzle.Outcome, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}

type Server struct {
	logger   *slog.Logger
	router   *chi.Mux
	sessions sessionUseCase
	validate *validator.Validate
}

// New - builds the router. metricsHandler is mounted on /metrics.
func New(logger *slog.Logger, sessions sessionUseCase, metricsHandler http.Handler) *Server {
	that := &Server{
		logger:   logger.With("component", "rest"),
		router:   chi.NewRouter(),
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	that.router.Use(chimw.RequestID)
	that.router.Use(chimw.RealIP)
	that.router.Use(that.logRequests)
	that.router.Use(chimw.Recoverer)
	that.router.Use(chimw.Timeout(handlerTimeout))

	that.router.Get("/ping", PingHandler)
	that.router.Method(http.MethodGet, "/metrics", metricsHandler)

	that.router.Route("/sessions", func(r chi.Router) {
		r.Use(jsonContentType)

		r.Post("/", that.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", that.getSession)
			r.Delete("/", that.deleteSession)
			r.Post("/moves", that.applyMove)
			r.Post("/restart", that.restartSession)
		})
	})

	that.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})

	return that
}

func (that *Server) Router() http.Handler {
	return that.router
}

// Start - serves on port until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}

		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}

		return nil
	}
}

func PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func (that *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		that.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(started),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
