// Package api exposes the leveling engine and habit service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/habits"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/metrics"
)

// Server is the HTTP API server.
type Server struct {
	svc            *habits.Service
	scanner        *habits.Scanner
	logger         *slog.Logger
	metricsEnabled bool
	timeout        time.Duration
	version        string
}

// NewServer creates a new API server.
func NewServer(svc *habits.Service, scanner *habits.Scanner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, scanner: scanner, logger: logger, timeout: 30 * time.Second, version: "dev"}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetTimeout sets the per-request timeout.
func (s *Server) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// SetVersion sets the version reported by /health.
func (s *Server) SetVersion(v string) { s.version = v }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.instrument)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": s.version,
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/tiers", s.handleTiers)
		r.Get("/levels/suggest", s.handleSuggestLevel)

		r.Post("/users", s.handleCreateUser)
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", s.handleGetUser)
			r.Put("/level", s.handleSetUserLevel)
			r.Get("/habits", s.handleListHabits)
			r.Post("/habits", s.handleCreateHabit)
			r.Get("/consistency", s.handleConsistency)
			r.Get("/notifications", s.handleNotifications)
			r.Post("/scan", s.handleScanUser)
		})

		r.Route("/habits/{habitID}", func(r chi.Router) {
			r.Get("/", s.handleGetHabit)
			r.Post("/completions", s.handleRecordCompletion)
			r.Get("/check", s.handleCheckHabit)
			r.Get("/baby-steps", s.handleBabySteps)
			r.Post("/baby-steps", s.handleAdoptBabyStep)
		})

		r.Post("/notifications/{id}/read", s.handleMarkRead)
	})

	return r
}

// instrument counts requests by route pattern and status.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"status":  status,
		},
	})
}

// writeServiceError maps service sentinels to HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, habits.ErrUserNotFound),
		errors.Is(err, habits.ErrHabitNotFound),
		errors.Is(err, habits.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, habits.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
