package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/courtside/win-predictor/internal/form"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// Backend is the prediction service as seen by the handlers
type Backend interface {
	form.Predictor
	Ping(ctx context.Context) error
}

type Config struct {
	Backend        Backend
	Sessions       *SessionStore
	Logger         *zap.Logger
	AllowedOrigins []string
	// SecureCookies marks the session cookie Secure (HTTPS deployments)
	SecureCookies bool
}

type Handler struct {
	backend        Backend
	sessions       *SessionStore
	logger         *zap.SugaredLogger
	validate       *validator.Validate
	allowedOrigins []string
	secureCookies  bool
}

func New(cfg Config) *Handler {
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = NewSessionStore(30 * time.Minute)
	}
	return &Handler{
		backend:        cfg.Backend,
		sessions:       sessions,
		logger:         cfg.Logger.Sugar(),
		validate:       newValidator(),
		allowedOrigins: cfg.AllowedOrigins,
		secureCookies:  cfg.SecureCookies,
	}
}

// Routes builds the service router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Form page
	r.Get("/", h.Index)
	r.Post("/", h.SubmitForm)

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Post("/predictions", h.CreatePrediction)
		r.Get("/predictions/last", h.GetLastPrediction)
	})

	return r
}
