package api

import (
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"

	"steam-pulse/internal/domain"
	"steam-pulse/internal/usecase/chart"
)

type dayHoursJSON struct {
	Date  domain.DateKey     `json:"Date"`
	Hours domain.SampleValue `json:"Hours"`
}

type gameJSON struct {
	Rank              int            `json:"Rank"`
	GameName          string         `json:"GameName"`
	CurrentPlayers    int64          `json:"CurrentPlayers"`
	TotalHoursPlayed  int64          `json:"TotalHoursPlayed"`
	HoursPlayed30Days []dayHoursJSON `json:"HoursPlayed30Days"`
}

type topGamesResponse struct {
	Timestamp string     `json:"timestamp"`
	Games     []gameJSON `json:"games"`
}

type mentionsResponse struct {
	GameName  string                `json:"gameName"`
	Timestamp string                `json:"timestamp"`
	Mentions  []domain.MentionPoint `json:"mentions"`
}

type trendResponse struct {
	GameName  string              `json:"gameName"`
	Timestamp string              `json:"timestamp"`
	Points    []domain.ChartPoint `json:"points"`
}

func toGameJSON(games []domain.Game) []gameJSON {
	out := make([]gameJSON, 0, len(games))
	for _, g := range games {
		days := make([]dayHoursJSON, 0, len(g.Last30Days))
		for _, d := range g.Last30Days {
			days = append(days, dayHoursJSON{Date: d.Date, Hours: d.Hours})
		}
		out = append(out, gameJSON{
			Rank:              g.Rank,
			GameName:          g.Name,
			CurrentPlayers:    g.CurrentPlayers,
			TotalHoursPlayed:  g.TotalHoursPlayed,
			HoursPlayed30Days: days,
		})
	}
	return out
}

func (s *Server) handleTopGames(w http.ResponseWriter, r *http.Request) {
	games := s.cache.GetGames(r.Context())

	if violations := validateGames(games); len(violations) > 0 {
		s.log.Error().Interface("violations", violations).Msg("api: снапшот не прошёл проверку инвариантов")
		writeError(w, http.StatusInternalServerError,
			"Internal server error: Data format mismatch for top games.", violations)
		return
	}

	writeJSON(w, http.StatusOK, topGamesResponse{
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Games:     toGameJSON(games),
	})
}

func (s *Server) handleRedditMentions(w http.ResponseWriter, r *http.Request) {
	name, violations := decodeGameName(chi.URLParam(r, "gameName"))
	if len(violations) > 0 {
		writeError(w, http.StatusBadRequest, "Validation failed", violations)
		return
	}

	points := s.mentions.DailyMentions(r.Context(), name)

	// Экспорт вне пути запроса: ошибка записи на ответ не влияет.
	if s.exporter != nil {
		go func() {
			if err := s.exporter.SaveMentionsCSV("reddit_mentions_"+slugify(name), points); err != nil {
				s.log.Warn().Err(err).Str("game", name).Msg("api: не удалось сохранить CSV упоминаний")
			}
		}()
	}

	writeJSON(w, http.StatusOK, mentionsResponse{
		GameName:  name,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Mentions:  points,
	})
}

func (s *Server) handleGameTrend(w http.ResponseWriter, r *http.Request) {
	name, violations := decodeGameName(chi.URLParam(r, "gameName"))
	if len(violations) > 0 {
		writeError(w, http.StatusBadRequest, "Validation failed", violations)
		return
	}

	games := s.cache.GetGames(r.Context())
	var game *domain.Game
	for i := range games {
		if strings.EqualFold(games[i].Name, name) {
			game = &games[i]
			break
		}
	}
	if game == nil {
		writeError(w, http.StatusNotFound, "Game not found in the current leaderboard snapshot.", nil)
		return
	}

	points := chart.Align(game.Last30Days, s.mentions.DailyMentions(r.Context(), game.Name))
	writeJSON(w, http.StatusOK, trendResponse{
		GameName:  game.Name,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Points:    points,
	})
}
