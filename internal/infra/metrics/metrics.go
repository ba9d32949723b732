package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	ScrapeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "leaderboard_scrape_seconds",
		Help:    "Время полного скрейпа лидерборда",
		Buckets: []float64{1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90, 120},
	})
	ScrapeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_scrape_errors_total",
		Help: "Ошибки скрейпинга лидерборда",
	})
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_cache_hits_total",
		Help: "Ответы из свежего кэша без скрейпа",
	})
	CacheRefreshes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_cache_refreshes_total",
		Help: "Запущенные обновления кэша",
	})
	CacheStaleFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_cache_stale_fallbacks_total",
		Help: "Ответы устаревшим снапшотом после неудачного обновления",
	})
	CacheEmptyResults = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_cache_empty_results_total",
		Help: "Деградации до пустого ответа при пустом кэше",
	})
	MentionSearchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mentions_search_seconds",
		Help:    "Время поиска упоминаний",
		Buckets: prometheus.DefBuckets,
	})
	MentionSearchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mentions_search_failures_total",
		Help: "Неудачные обращения к поиску упоминаний",
	})
	MentionCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mentions_cache_hits_total",
		Help: "Ответы из короткого кэша упоминаний",
	})
	ExportErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "export_errors_total",
		Help: "Ошибки записи снапшотов и CSV на диск",
	})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		ScrapeDuration,
		ScrapeErrors,
		CacheHits,
		CacheRefreshes,
		CacheStaleFallbacks,
		CacheEmptyResults,
		MentionSearchDuration,
		MentionSearchFailures,
		MentionCacheHits,
		ExportErrors,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveScrape записывает длительность скрейпа и считает ошибки.
func ObserveScrape(start time.Time, err error) {
	ScrapeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		ScrapeErrors.Inc()
	}
}
