package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garnizeh/jobdesk/internal/config"
	"github.com/garnizeh/jobdesk/internal/db"
	"github.com/garnizeh/jobdesk/internal/event"
	"github.com/garnizeh/jobdesk/internal/metrics"
	"github.com/garnizeh/jobdesk/internal/repository/sqlite"
	"github.com/garnizeh/jobdesk/internal/service"
)

// SetupRoutes wires the store, services and handlers into a router. Metrics
// are registered with reg; a fresh registry is used when reg is nil.
func SetupRoutes(cfg *config.Config, version, buildTime string, d *db.DB, reg *prometheus.Registry) (*mux.Router, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	httpMetrics, err := metrics.NewHTTPMetrics(reg, serviceName)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}
	eventMetrics, err := event.NewMetricsNotifier(reg)
	if err != nil {
		return nil, fmt.Errorf("register event metrics: %w", err)
	}
	notifier := event.Multi{event.NewLogNotifier(logger), eventMetrics}

	// Repository
	repo := sqlite.New(d, logger)

	// Services
	jobService := service.NewJobService(repo, notifier, service.JobServiceConfig{
		PerPage:        cfg.PerPage,
		MatchCreatedAt: cfg.MatchCreatedAt,
	}, logger)
	noteService := service.NewJobNoteService(repo, notifier, logger)

	// Create handlers
	systemHandler := &SystemHandler{db: d}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	jobsHandler := NewJobsHandler(jobService)
	notesHandler := NewNotesHandler(jobService, noteService)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(NotFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowedHandler)

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(httpMetrics.Middleware)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods(http.MethodGet)
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})).Methods(http.MethodGet)
	r.HandleFunc("/sanctum/token", authHandler.IssueToken).Methods(http.MethodPost, http.MethodOptions)

	// Protected routes. OPTIONS is listed so CORSMiddleware can answer
	// preflight requests before authentication.
	protected := r.NewRoute().Subrouter()
	protected.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret, repo))

	protected.HandleFunc("/jobs", jobsHandler.List).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/jobs/{job:[0-9]+}", jobsHandler.Show).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/jobs/{job:[0-9]+}", jobsHandler.Destroy).Methods(http.MethodDelete)
	protected.HandleFunc("/jobs/{job:[0-9]+}/status", jobsHandler.UpdateStatus).Methods(http.MethodPatch, http.MethodOptions)
	protected.HandleFunc("/jobs/{job:[0-9]+}/audits", jobsHandler.Audits).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/jobs/{job:[0-9]+}/notes", notesHandler.Store).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/jobs/{job:[0-9]+}/notes/{jobNote:[0-9]+}", notesHandler.Update).Methods(http.MethodPut, http.MethodOptions)

	return r, nil
}
