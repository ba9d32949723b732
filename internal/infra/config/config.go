package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервиса.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	Port   int    `envconfig:"PORT" default:"3000"`

	Cache struct {
		DurationSeconds int `envconfig:"CACHE_DURATION_SECONDS" default:"3600"`
	} `envconfig:""`

	Steamcharts struct {
		URL     string        `envconfig:"STEAMCHARTS_URL" default:"https://steamcharts.com/"`
		Timeout time.Duration `envconfig:"STEAMCHARTS_TIMEOUT" default:"90s"`
	} `envconfig:""`

	Reddit struct {
		ClientID     string        `envconfig:"REDDIT_CLIENT_ID"`
		ClientSecret string        `envconfig:"REDDIT_CLIENT_SECRET"`
		UserAgent    string        `envconfig:"REDDIT_USER_AGENT"`
		Username     string        `envconfig:"REDDIT_USERNAME"`
		Password     string        `envconfig:"REDDIT_PASSWORD"`
		Timeout      time.Duration `envconfig:"REDDIT_TIMEOUT" default:"15s"`
	} `envconfig:""`

	Mentions struct {
		WindowDays   int `envconfig:"MENTION_WINDOW_DAYS" default:"30"`
		CacheSeconds int `envconfig:"MENTION_CACHE_SECONDS" default:"300"`
	} `envconfig:""`

	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	Metrics struct {
		Enabled bool   `envconfig:"METRICS_ENABLED" default:"false"`
		Addr    string `envconfig:"METRICS_ADDR" default:":9090"`
	} `envconfig:""`

	Server struct {
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"5s"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
