package mentions

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"steam-pulse/internal/domain"
	"steam-pulse/internal/infra/metrics"
)

const dayKeyFormat = "2006-01-02"

// Service строит плотный дневной ряд упоминаний за скользящее окно.
// Дни без постов заполняются нулями; границы дня — по UTC.
type Service struct {
	source     domain.MentionSource
	windowDays int
	cacheTTL   time.Duration
	log        zerolog.Logger
	now        func() time.Time

	mu     sync.Mutex
	cached map[string]cachedSeries
}

type cachedSeries struct {
	points   []domain.MentionPoint
	storedAt time.Time
}

// NewService создаёт агрегатор упоминаний.
// cacheTTL > 0 включает короткий кэш по теме запроса, 0 — каждый
// запрос заново обращается к поиску.
func NewService(source domain.MentionSource, windowDays int, cacheTTL time.Duration, logger zerolog.Logger) *Service {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &Service{
		source:     source,
		windowDays: windowDays,
		cacheTTL:   cacheTTL,
		log:        logger,
		now:        time.Now,
		cached:     make(map[string]cachedSeries),
	}
}

// DailyMentions возвращает ровно windowDays точек по возрастанию даты,
// покрывающих дни [сегодня-N+1, сегодня]. Поиск может вернуть больше
// истории, чем нужно, — посты отсекаются по их собственной метке времени.
// Любая ошибка поиска (нет реквизитов, сеть, лимиты) даёт нулевой ряд,
// а не ошибку: для вызывающего это валидный, отображаемый результат.
func (s *Service) DailyMentions(ctx context.Context, subject string) []domain.MentionPoint {
	if points, ok := s.fromCache(subject); ok {
		metrics.MentionCacheHits.Inc()
		return points
	}

	today := s.now().UTC()
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	end := dayStart.Add(24*time.Hour - time.Millisecond)
	start := dayStart.AddDate(0, 0, -(s.windowDays - 1))

	counts := make(map[string]int)
	searchStart := time.Now()
	posts, err := s.source.Search(ctx, subject)
	metrics.MentionSearchDuration.Observe(time.Since(searchStart).Seconds())
	if err != nil {
		s.log.Warn().Err(err).Str("subject", subject).Msg("mentions: поиск не удался, отдаём нулевой ряд")
		metrics.MentionSearchFailures.Inc()
	} else {
		for _, post := range posts {
			created := post.CreatedAt.UTC()
			if created.Before(start) || created.After(end) {
				continue
			}
			counts[created.Format(dayKeyFormat)]++
		}
	}

	points := make([]domain.MentionPoint, 0, s.windowDays)
	day := start
	for i := 0; i < s.windowDays; i++ {
		key := day.Format(dayKeyFormat)
		points = append(points, domain.MentionPoint{Date: key, Count: counts[key]})
		day = day.AddDate(0, 0, 1)
	}

	// Неудачный поиск не кэшируем, чтобы следующий запрос повторил попытку.
	if err == nil {
		s.store(subject, points)
	}
	return points
}

func (s *Service) fromCache(subject string) ([]domain.MentionPoint, bool) {
	if s.cacheTTL <= 0 {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cached[subject]
	if !ok || s.now().Sub(entry.storedAt) >= s.cacheTTL {
		return nil, false
	}
	return entry.points, true
}

func (s *Service) store(subject string, points []domain.MentionPoint) {
	if s.cacheTTL <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached[subject] = cachedSeries{points: points, storedAt: s.now()}
}
