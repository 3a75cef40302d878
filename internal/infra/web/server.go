package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"ladder-analytics/internal/usecase"
)

type Server struct {
	dashboardUC usecase.DashboardUseCase
	ffpUC       usecase.FFPUseCase

	apiKey          string
	sessions        *SessionManager
	defaultLookback int

	log *zerolog.Logger
}

func NewServer(
	dashboardUC usecase.DashboardUseCase,
	ffpUC usecase.FFPUseCase,
	apiKey string,
	sessions *SessionManager,
	defaultLookbackDays int,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		dashboardUC:     dashboardUC,
		ffpUC:           ffpUC,
		apiKey:          apiKey,
		sessions:        sessions,
		defaultLookback: defaultLookbackDays,
		log:             logger,
	}
}

// RegisterRoutes sets up the routing for the dashboard API.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", healthHandler)
	mux.HandleFunc("/api/v1/login", s.loginHandler)
	mux.HandleFunc("/api/v1/logout", s.logoutHandler)

	// All dashboard routes sit behind the auth middleware.
	mux.Handle("/api/v1/overview", s.authMiddleware(s.overviewHandler()))
	mux.Handle("/api/v1/trends", s.authMiddleware(s.trendsHandler()))
	mux.Handle("/api/v1/engagement", s.authMiddleware(s.engagementHandler()))
	mux.Handle("/api/v1/ffp", s.authMiddleware(s.ffpHandler()))

	featuresRouter := s.authMiddleware(s.featuresRouter())
	mux.Handle("/api/v1/features/", featuresRouter)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// loginHandler exchanges the shared API key for a session cookie.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.apiKey == "" {
		s.log.Error().Msg("dashboard API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if bearerToken(r) != s.apiKey {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	token, err := s.sessions.Mint(w)
	if err != nil {
		s.log.Error().Err(err).Msg("minting session token")
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// authMiddleware accepts either the shared API key as a bearer token or a
// valid session cookie/JWT.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("dashboard API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if bearerToken(r) == s.apiKey {
			next.ServeHTTP(w, r)
			return
		}
		if _, err := s.sessions.ParseFromRequest(r); err == nil {
			next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// featuresRouter handles /api/v1/features/{feature}.
func (s *Server) featuresRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := strings.TrimPrefix(r.URL.Path, "/api/v1/features/")
		tag = strings.TrimSuffix(tag, "/")
		if tag == "" || strings.Contains(tag, "/") {
			http.NotFound(w, r)
			return
		}
		s.featureHandler(tag)(w, r)
	})
}
