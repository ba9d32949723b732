package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"steam-pulse/internal/adapters/reddit"
	"steam-pulse/internal/domain"
	"steam-pulse/internal/usecase/leaderboard"
	"steam-pulse/internal/usecase/mentions"
)

type stubLeaderboard struct {
	games []domain.Game
	err   error
}

func (s *stubLeaderboard) FetchTopGames(context.Context) ([]domain.Game, error) {
	return s.games, s.err
}

type stubMentions struct {
	posts []domain.Post
	err   error
}

func (s *stubMentions) Search(context.Context, string) ([]domain.Post, error) {
	return s.posts, s.err
}

var twoGames = []domain.Game{
	{
		Rank: 1, Name: "Counter-Strike 2", CurrentPlayers: 900000, TotalHoursPlayed: 1200000000,
		Last30Days: []domain.DaySample{
			{Date: domain.CalendarDate("2026-08-28"), Hours: domain.NumericHours(100)},
			{Date: domain.CalendarDate("2026-08-29"), Hours: domain.NumericHours(200)},
		},
	},
	{Rank: 2, Name: "Dota 2", CurrentPlayers: 500000, TotalHoursPlayed: 800000000},
}

func newTestRouter(lb domain.LeaderboardSource, ms domain.MentionSource) chi.Router {
	cache := leaderboard.NewCache(lb, nil, time.Hour, zerolog.Nop())
	mentionsSvc := mentions.NewService(ms, 30, 0, zerolog.Nop())
	srv := NewServer(cache, mentionsSvc, nil, zerolog.Nop())
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func doRequest(t *testing.T, r chi.Router, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTopGamesColdStart(t *testing.T) {
	r := newTestRouter(&stubLeaderboard{games: twoGames}, &stubMentions{})

	rec := doRequest(t, r, "/api/top-games")
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Timestamp string `json:"timestamp"`
		Games     []struct {
			Rank              int    `json:"Rank"`
			GameName          string `json:"GameName"`
			HoursPlayed30Days []struct {
				Date  string `json:"Date"`
				Hours *int64 `json:"Hours"`
			} `json:"HoursPlayed30Days"`
		} `json:"games"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if len(resp.Games) != 2 {
		t.Fatalf("ожидали 2 игры, получили %d", len(resp.Games))
	}
	if resp.Games[0].Rank != 1 {
		t.Fatalf("первая игра должна иметь ранг 1, получили %d", resp.Games[0].Rank)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Fatalf("timestamp должен быть ISO-8601: %v", err)
	}
	if len(resp.Games[0].HoursPlayed30Days) != 2 {
		t.Fatalf("ожидали 30-дневный ряд первой игры: %+v", resp.Games[0])
	}
}

func TestTopGamesScrapeFailureDegradesToEmpty(t *testing.T) {
	r := newTestRouter(&stubLeaderboard{err: errors.New("steamcharts недоступен")}, &stubMentions{})

	rec := doRequest(t, r, "/api/top-games")
	if rec.Code != http.StatusOK {
		t.Fatalf("деградация до пустого списка — это не ошибка: %d", rec.Code)
	}
	var resp struct {
		Games []json.RawMessage `json:"games"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if len(resp.Games) != 0 {
		t.Fatalf("ожидали пустой список игр, получили %d", len(resp.Games))
	}
}

func TestTopGamesShapeMismatch(t *testing.T) {
	broken := []domain.Game{{Rank: 5, Name: "Counter-Strike 2"}}
	r := newTestRouter(&stubLeaderboard{games: broken}, &stubMentions{})

	rec := doRequest(t, r, "/api/top-games")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("нарушение инварианта снапшота должно давать 500, получили %d", rec.Code)
	}
	var resp struct {
		Status  string `json:"status"`
		Details []struct {
			Path string `json:"path"`
			Code string `json:"code"`
		} `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if resp.Status != "error" || len(resp.Details) == 0 {
		t.Fatalf("ожидали структурированные детали: %s", rec.Body)
	}
	if resp.Details[0].Path != "games.0.Rank" {
		t.Fatalf("ожидали нарушение по рангу, получили %+v", resp.Details[0])
	}
}

// Сквозной сценарий: реквизиты Reddit не заданы, клиент настоящий.
// Ответ — валидный плотный ряд из 30 нулей, а не ошибка.
func TestRedditMentionsWithoutCredentials(t *testing.T) {
	client := reddit.NewClient(reddit.Credentials{}, time.Second, zerolog.Nop())
	r := newTestRouter(&stubLeaderboard{games: twoGames}, client)

	rec := doRequest(t, r, "/api/reddit-mentions/Dota%202")
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		GameName string `json:"gameName"`
		Mentions []struct {
			Date     string `json:"Date"`
			Mentions int    `json:"Mentions"`
		} `json:"mentions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if resp.GameName != "Dota 2" {
		t.Fatalf("имя игры должно быть URL-декодировано: %q", resp.GameName)
	}
	if len(resp.Mentions) != 30 {
		t.Fatalf("ожидали 30 точек, получили %d", len(resp.Mentions))
	}
	today := time.Now().UTC().Format("2006-01-02")
	if resp.Mentions[29].Date != today {
		t.Fatalf("окно должно заканчиваться сегодня: %s != %s", resp.Mentions[29].Date, today)
	}
	for i, m := range resp.Mentions {
		if m.Mentions != 0 {
			t.Fatalf("точка %d: ожидали 0 упоминаний, получили %d", i, m.Mentions)
		}
		if i > 0 {
			prev, _ := time.Parse("2006-01-02", resp.Mentions[i-1].Date)
			cur, _ := time.Parse("2006-01-02", m.Date)
			if cur.Sub(prev) != 24*time.Hour {
				t.Fatalf("дни должны идти подряд: %s -> %s", resp.Mentions[i-1].Date, m.Date)
			}
		}
	}
}

func TestRedditMentionsBlankName(t *testing.T) {
	r := newTestRouter(&stubLeaderboard{games: twoGames}, &stubMentions{})

	rec := doRequest(t, r, "/api/reddit-mentions/%20")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("пустое имя после декодирования должно давать 400, получили %d", rec.Code)
	}
	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Details []struct {
			Path    string `json:"path"`
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if resp.Status != "error" || resp.Message != "Validation failed" {
		t.Fatalf("ожидали ошибку валидации: %s", rec.Body)
	}
	if len(resp.Details) != 1 || resp.Details[0].Path != "gameName" {
		t.Fatalf("ожидали нарушение по gameName: %s", rec.Body)
	}
}

func TestGameTrendJoinsSeries(t *testing.T) {
	todayKey := time.Now().UTC().Format("2006-01-02")
	games := []domain.Game{{
		Rank: 1, Name: "Dota 2", CurrentPlayers: 500000,
		Last30Days: []domain.DaySample{
			{Date: domain.CalendarDate(todayKey), Hours: domain.NumericHours(777)},
			{Date: domain.DateKey{Kind: domain.DatePlaceholder}, Hours: domain.NumericHours(1)},
		},
	}}
	source := &stubMentions{posts: []domain.Post{{CreatedAt: time.Now().UTC()}}}
	r := newTestRouter(&stubLeaderboard{games: games}, source)

	rec := doRequest(t, r, "/api/game-trend/Dota%202")
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Points []struct {
			Date     string `json:"Date"`
			Hours    int64  `json:"Hours"`
			Mentions int    `json:"Mentions"`
		} `json:"points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if len(resp.Points) != 1 {
		t.Fatalf("строка-агрегат должна отбрасываться: %+v", resp.Points)
	}
	if resp.Points[0].Hours != 777 || resp.Points[0].Mentions != 1 {
		t.Fatalf("ожидали совмещённую точку 777/1, получили %+v", resp.Points[0])
	}
}

func TestGameTrendUnknownGame(t *testing.T) {
	r := newTestRouter(&stubLeaderboard{games: twoGames}, &stubMentions{})

	rec := doRequest(t, r, "/api/game-trend/No%20Such%20Game")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("неизвестная игра должна давать 404, получили %d", rec.Code)
	}
}
