// Package envconfig loads collector settings and credentials from the
// environment, optionally seeded from a .env file.
package envconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"github.com/cognicore/postsent/pkg/postsent/internalerr"
)

type Config struct {
	BearerToken string `env:"X_BEARER_TOKEN"`
	APIBaseURL  string `env:"X_API_BASE_URL" default:"https://api.twitter.com"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// Search requests allowed per RateWindow (app-auth recent search).
	RequestsPerWindow int           `env:"REQUESTS_PER_WINDOW" default:"450"`
	RateWindow        time.Duration `env:"RATE_WINDOW" default:"15m"`

	MaxResults int    `env:"MAX_RESULTS" default:"100"`
	CursorDB   string `env:"CURSOR_DB" default:"postsent.db"`
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, then the environment into a Config. Missing .env
// files are not an error.
func Load(files ...string) (*Config, bool, error) {
	dotenv := true
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("read .env: %w", err)
		}
		dotenv = false
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, dotenv, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, dotenv, fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, err)
	}

	return &cfg, dotenv, nil
}

func validate(cfg *Config) error {
	if cfg.BearerToken == "" {
		return errors.New("X_BEARER_TOKEN is required")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("X_API_BASE_URL must be an absolute URL, got %q", cfg.APIBaseURL)
	}
	if cfg.MaxResults < 10 || cfg.MaxResults > 100 {
		return fmt.Errorf("MAX_RESULTS must be between 10 and 100, got %d", cfg.MaxResults)
	}
	if cfg.RequestsPerWindow < 1 {
		return fmt.Errorf("REQUESTS_PER_WINDOW must be positive, got %d", cfg.RequestsPerWindow)
	}
	if cfg.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW must be positive, got %s", cfg.RateWindow)
	}
	if cfg.CursorDB == "" {
		return errors.New("CURSOR_DB is required")
	}
	return nil
}
