package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jerilmartin/rankprobe/internal/scan"
)

// defaultRequestTimeout bounds request handling when no timeout is configured
const defaultRequestTimeout = 60 * time.Second

// corsMaxAgeSeconds is how long browsers may cache preflight results
const corsMaxAgeSeconds = 300

// RouterConfig carries the collaborators and limits for the HTTP router.
type RouterConfig struct {
	// Store is where scan records are read for status polling
	Store scan.Store
	// Runner accepts scan submissions
	Runner *scan.Runner
	// MaxBodySize caps request bodies in bytes; zero disables the cap
	MaxBodySize int64
	// RequestTimeout bounds request handling; zero means the default
	RequestTimeout time.Duration
}

// NewRouter creates a chi router with all endpoints and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	h := &Handler{
		store:       cfg.Store,
		runner:      cfg.Runner,
		maxBodySize: cfg.MaxBodySize,
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Heartbeat("/ping"))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         corsMaxAgeSeconds,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Post("/scans", h.handleSubmitScan)
		r.Get("/scans/{scanID}", h.handleGetScan)
		r.Post("/highlight", h.handleHighlight)
	})

	return r
}
