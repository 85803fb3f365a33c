package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config is the full runtime configuration. Every field has a workable
// default; only deliberate overrides need the environment.
type Config struct {
	Port      string `env:"PORT" default:"8765"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	NewsURL      string `env:"NEWS_URL" default:"https://www.economic_news.com/"`
	SearchURL    string `env:"SEARCH_URL" default:"https://search.economic_news.com"`
	FlashAPIURL  string `env:"FLASH_API_URL" default:"https://flash-api.economic_news.com"`
	ClockDataURL string `env:"CLOCK_DATA_URL" default:"https://cdn.economic_news.com/trading-clock/new/data.json"`

	// Upstream flash API credentials. The defaults are the public web
	// client's values.
	AppID      string `env:"APP_ID" default:"bVBF4FyRTn5NJF5n"`
	AppVersion string `env:"APP_VERSION" default:"1.0.0"`
	Origin     string `env:"ORIGIN" default:"https://www.economic_news.com"`

	PollInterval time.Duration `env:"POLL_INTERVAL" default:"3s"`
	Headless     bool          `env:"HEADLESS" default:"true"`

	// RedisURL is optional. When set, resolved details persist in Redis
	// instead of process memory.
	RedisURL string `env:"REDIS_URL"`
}

// Load reads a .env file when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}

	return &cfg, nil
}
