package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpmiddleware "github.com/wolfman30/chatlookup/internal/http/middleware"
	"github.com/wolfman30/chatlookup/pkg/logging"
)

// DefaultRequestTimeout bounds a whole chat request, which may make up to
// three sequential completion calls.
const DefaultRequestTimeout = 45 * time.Second

// Config holds router configuration
type Config struct {
	Logger            *logging.Logger
	ClinicHandler     http.Handler
	RestaurantHandler http.Handler
	MetricsHandler    http.Handler

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	RequestTimeout     time.Duration
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Group(func(chat chi.Router) {
		chat.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
		chat.Use(middleware.Timeout(timeout))

		if cfg.ClinicHandler != nil {
			chat.Method(http.MethodPost, "/api/chat/clinic", cfg.ClinicHandler)
			chat.Method(http.MethodPost, "/api/chat_clinic", cfg.ClinicHandler)
		}
		if cfg.RestaurantHandler != nil {
			chat.Method(http.MethodPost, "/api/chat/restaurant", cfg.RestaurantHandler)
			chat.Method(http.MethodPost, "/api/chat_restaurant", cfg.RestaurantHandler)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
