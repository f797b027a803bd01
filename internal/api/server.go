// Package api exposes the timesheet over a JSON HTTP API.
package api

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"arbeitszeit/internal/entry"
	"arbeitszeit/internal/metrics"
	"arbeitszeit/internal/models"
	"arbeitszeit/internal/service"
)

// SessionHeader carries the session token on every authenticated request.
const SessionHeader = "X-Session-Token"

// Timesheets is the service surface the handlers use.
type Timesheets interface {
	Login(ctx context.Context, login string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (*models.Session, error)
	Overview(ctx context.Context, sess *models.Session) (*service.Overview, error)
	Save(ctx context.Context, sess *models.Session, form entry.Form) (*service.SaveResult, error)
	Delete(ctx context.Context, sess *models.Session, date string) error
	Export(ctx context.Context, sess *models.Session, w io.Writer) error
}

// ReadyFunc reports whether the backing stores are reachable.
type ReadyFunc func(ctx context.Context) error

type Options struct {
	AllowedOrigins []string
	Ready          ReadyFunc
}

// NewRouter creates a new router with all routes configured.
func NewRouter(svc Timesheets, opts Options, logger *zerolog.Logger) *chi.Mux {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	h := &Handler{svc: svc, ready: opts.Ready, logger: logger}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", SessionHeader},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", h.CreateSession)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)
			r.Delete("/sessions", h.DeleteSession)
			r.Get("/entries", h.ListEntries)
			r.Put("/entries/{date}", h.SaveEntry)
			r.Delete("/entries/{date}", h.DeleteEntry)
			r.Get("/export", h.Export)
		})
	})

	return r
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			metrics.IncHTTP(route, strconv.Itoa(status))

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
