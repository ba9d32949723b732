package api

import (
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"steam-pulse/internal/domain"
	"steam-pulse/internal/usecase/leaderboard"
	"steam-pulse/internal/usecase/mentions"
)

// Server связывает HTTP-обработчики с юзкейсами.
type Server struct {
	cache    *leaderboard.Cache
	mentions *mentions.Service
	exporter domain.SnapshotExporter
	log      zerolog.Logger
	now      func() time.Time
}

// NewServer создаёт API сервер.
func NewServer(cache *leaderboard.Cache, mentionsSvc *mentions.Service, exporter domain.SnapshotExporter, logger zerolog.Logger) *Server {
	return &Server{cache: cache, mentions: mentionsSvc, exporter: exporter, log: logger, now: time.Now}
}

// Routes регистрирует маршруты API.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.handleHealthz)
	r.Get("/api/top-games", s.handleTopGames)
	r.Get("/api/reddit-mentions/{gameName}", s.handleRedditMentions)
	r.Get("/api/game-trend/{gameName}", s.handleGameTrend)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// errorResponse — единый формат ошибок API.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, details any) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message, Details: details})
}
