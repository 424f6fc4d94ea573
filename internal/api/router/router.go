package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/settlo/backend/internal/http/middleware"
	"github.com/settlo/backend/internal/leads"
	"github.com/settlo/backend/pkg/logging"
)

const healthMessage = "Settlo Backend is running!"

// Config holds router configuration. Both deployment entry points (the
// self-hosted listener and the lambda wrapper) build the same router from
// this config.
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	CORSAllowedOrigins []string
	MetricsHandler     http.Handler

	// RootHealth additionally serves the health payload on GET /. The
	// self-hosted deployment sets this; behind an API gateway the bare
	// root is owned by the host.
	RootHealth bool
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	if cfg.RootHealth {
		r.Get("/", healthCheck)
	}
	r.Get("/api/health", healthCheck)

	r.Route("/api/leads", func(r chi.Router) {
		r.Post("/", cfg.LeadsHandler.Submit)
		r.Get("/", cfg.LeadsHandler.List)
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": healthMessage,
	})
}
