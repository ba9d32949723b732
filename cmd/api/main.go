package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"steam-pulse/internal/adapters/export"
	"steam-pulse/internal/adapters/reddit"
	"steam-pulse/internal/adapters/steamcharts"
	"steam-pulse/internal/api"
	"steam-pulse/internal/infra/config"
	httpinfra "steam-pulse/internal/infra/http"
	applog "steam-pulse/internal/infra/log"
	"steam-pulse/internal/infra/metrics"
	"steam-pulse/internal/usecase/leaderboard"
	"steam-pulse/internal/usecase/mentions"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		metrics.MustRegister(prometheus.DefaultRegisterer)
		metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.Metrics.Addr)
	}

	exporter, err := export.NewFiles(cfg.DataDir, logger.With().Str("component", "export").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("api: каталог данных недоступен")
	}

	scraper := steamcharts.NewScraper(cfg.Steamcharts.URL, cfg.Steamcharts.Timeout,
		logger.With().Str("component", "steamcharts").Logger())
	cache := leaderboard.NewCache(scraper, exporter,
		time.Duration(cfg.Cache.DurationSeconds)*time.Second,
		logger.With().Str("component", "leaderboard").Logger())

	redditClient := reddit.NewClient(reddit.Credentials{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		Username:     cfg.Reddit.Username,
		Password:     cfg.Reddit.Password,
	}, cfg.Reddit.Timeout, logger.With().Str("component", "reddit").Logger())
	mentionsSvc := mentions.NewService(redditClient, cfg.Mentions.WindowDays,
		time.Duration(cfg.Mentions.CacheSeconds)*time.Second,
		logger.With().Str("component", "mentions").Logger())

	srv := httpinfra.NewServer(logger.With().Str("component", "http").Logger())
	api.NewServer(cache, mentionsSvc, exporter, logger.With().Str("component", "api").Logger()).Routes(srv.Router)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("api: сервер остановлен")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: graceful shutdown failed")
	}
}
