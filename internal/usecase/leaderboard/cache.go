package leaderboard

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"steam-pulse/internal/domain"
	"steam-pulse/internal/infra/metrics"
)

// Cache хранит последний снапшот лидерборда и сводит конкурентные
// обновления к одному скрейпу. Единственный экземпляр на процесс,
// передаётся зависимостям явно.
type Cache struct {
	source   domain.LeaderboardSource
	exporter domain.SnapshotExporter
	ttl      time.Duration
	log      zerolog.Logger

	mu       sync.RWMutex
	snapshot *domain.Snapshot

	group singleflight.Group
	now   func() time.Time
}

// NewCache создаёт кэш лидерборда.
func NewCache(source domain.LeaderboardSource, exporter domain.SnapshotExporter, ttl time.Duration, logger zerolog.Logger) *Cache {
	return &Cache{source: source, exporter: exporter, ttl: ttl, log: logger, now: time.Now}
}

// GetGames возвращает игры из свежего снапшота либо запускает обновление.
// Конкурентные вызовы при устаревшем кэше ждут один общий скрейп.
// При неудаче отдаёт устаревший снапшот, а если его нет — пустой список;
// ошибка наружу не поднимается.
func (c *Cache) GetGames(ctx context.Context) []domain.Game {
	if snap, ok := c.fresh(); ok {
		metrics.CacheHits.Inc()
		return snap.Games
	}

	v, _, _ := c.group.Do("top-games", func() (any, error) {
		// Повторная проверка: пока мы ждали слот, кто-то мог обновить кэш.
		if snap, ok := c.fresh(); ok {
			metrics.CacheHits.Inc()
			return snap.Games, nil
		}
		// Начатое обновление не отменяется вместе с первым запросом.
		return c.refresh(context.WithoutCancel(ctx)), nil
	})
	games, _ := v.([]domain.Game)
	return games
}

func (c *Cache) fresh() (*domain.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil, false
	}
	if c.now().Sub(c.snapshot.CapturedAt) >= c.ttl {
		return nil, false
	}
	return c.snapshot, true
}

func (c *Cache) refresh(ctx context.Context) []domain.Game {
	metrics.CacheRefreshes.Inc()
	c.log.Info().Msg("leaderboard: кэш устарел, запускаем скрейп")

	start := time.Now()
	games, err := c.source.FetchTopGames(ctx)
	metrics.ObserveScrape(start, err)
	if err != nil {
		c.mu.RLock()
		prev := c.snapshot
		c.mu.RUnlock()
		if prev != nil {
			c.log.Warn().Err(err).Msg("leaderboard: скрейп не удался, отдаём устаревший снапшот")
			metrics.CacheStaleFallbacks.Inc()
			return prev.Games
		}
		c.log.Error().Err(err).Msg("leaderboard: скрейп не удался, кэш пуст")
		metrics.CacheEmptyResults.Inc()
		return []domain.Game{}
	}

	snap := domain.Snapshot{CapturedAt: c.now(), Games: games}
	c.mu.Lock()
	c.snapshot = &snap
	c.mu.Unlock()
	c.log.Info().Int("games", len(games)).Msg("leaderboard: снапшот обновлён")

	go c.export(snap)
	return snap.Games
}

// export сохраняет снапшот на диск. Вызывается вне пути запроса:
// ошибка записи не влияет на ответ.
func (c *Cache) export(snap domain.Snapshot) {
	if c.exporter == nil {
		return
	}
	if err := c.exporter.SaveSnapshotJSON("top_games", snap); err != nil {
		c.log.Warn().Err(err).Msg("leaderboard: не удалось сохранить JSON снапшота")
		metrics.ExportErrors.Inc()
	}
	if err := c.exporter.SaveGamesCSV("top_games", snap.Games); err != nil {
		c.log.Warn().Err(err).Msg("leaderboard: не удалось сохранить CSV снапшота")
		metrics.ExportErrors.Inc()
	}
}
