package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-aroma-oracle/internal/infra/logging"
	"telegram-aroma-oracle/internal/usecase"
)

// Server exposes the liveness endpoints and a small read-only admin API.
// It deliberately shares no state with the bot flow: a broken draw path
// must not fail the hosting platform's probe.
type Server struct {
	statsUC usecase.StatsUseCase
	apiKey  string
	log     *zerolog.Logger
}

func NewServer(statsUC usecase.StatsUseCase, apiKey string, logger *zerolog.Logger) *Server {
	return &Server{statsUC: statsUC, apiKey: apiKey, log: logger}
}

// Router builds the chi router with all routes attached.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(traceMiddleware)

	// Root body matches what the hosting platform's probe has always seen.
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Bot is running!"))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Method(http.MethodGet, "/api/v1/stats", s.authMiddleware(s.statsHandler()))

	return r
}

// traceMiddleware tags every request context with a trace id so handler
// logs can be correlated.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			logging.With(r.Context(), s.log).Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statsResponse struct {
	Users       int `json:"users"`
	SavedOils   int `json:"saved_oils"`
	CatalogSize int `json:"catalog_size"`
}

func (s *Server) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, saves, catalogSize, err := s.statsUC.Totals(r.Context())
		if err != nil {
			logging.With(r.Context(), s.log).Error().Err(err).Msg("failed to get totals")
			http.Error(w, "Failed to get totals", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(statsResponse{
			Users:       users,
			SavedOils:   saves,
			CatalogSize: catalogSize,
		})
	}
}
