package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/therabot-ai/therabot-platform/internal/chat"
	httpmiddleware "github.com/therabot-ai/therabot-platform/internal/http/middleware"
	"github.com/therabot-ai/therabot-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *chat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// ChatRatePerSec enables per-IP rate limiting on message intake when > 0.
	ChatRatePerSec float64
	ChatRateBurst  int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
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

	h := cfg.ChatHandler

	r.Get("/", h.HandleRoot)
	r.Get("/health", h.HandleHealth)
	r.Get("/styles", h.HandleStyles)

	// Message intake is rate limited; introspection routes are not.
	r.Group(func(intake chi.Router) {
		if cfg.ChatRatePerSec > 0 {
			intake.Use(httpmiddleware.RateLimit(cfg.ChatRatePerSec, cfg.ChatRateBurst))
		}
		intake.Post("/chat", h.HandleChat)
		intake.Post("/safety/analyze", h.HandleAnalyze)
	})

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.HandleGetSession)
		r.Delete("/", h.HandleDeleteSession)
		r.Get("/insights", h.HandleInsights)
	})

	r.Get("/ws/{sessionID}", h.HandleWebSocket)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
