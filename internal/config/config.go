package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the challenge provider server's configuration.
type Config struct {
	HTTPAddr string        `env:"HTTP_ADDR" envDefault:":3001"`
	DBPath   string        `env:"DB_PATH" envDefault:"data/bowlingdle.db"`
	LogLevel slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	VideoDir string        `env:"VIDEO_DIR" envDefault:"videos"`
	SeedDemo bool          `env:"SEED_DEMO" envDefault:"false"`
}

// PlayConfig configures the terminal client.
type PlayConfig struct {
	ProviderURL    string        `env:"PROVIDER_URL" envDefault:"http://localhost:3001"`
	PollInterval   time.Duration `env:"POLL_INTERVAL" envDefault:"50ms"`
	PlaybackSpeed  float64       `env:"PLAYBACK_SPEED" envDefault:"1.0"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	LogLevel       slog.Level    `env:"LOG_LEVEL" envDefault:"WARN"`
}

func Load() (*Config, error) {
	return load[Config]()
}

func LoadPlay() (*PlayConfig, error) {
	return load[PlayConfig]()
}

// load reads .env from the working directory when present, without
// overriding variables already set, then parses the environment.
func load[T any]() (*T, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := env.ParseAs[T]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
