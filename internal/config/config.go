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

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// StateBackend selects where per-session values live: "sqlite" or "redis".
	StateBackend string        `env:"STATE_BACKEND" envDefault:"sqlite"`
	DBPath       string        `env:"DB_PATH" envDefault:"data/foodmood.db"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`

	SearchBaseURL string        `env:"SEARCH_BASE_URL,required"`
	SearchMethod  string        `env:"SEARCH_METHOD" envDefault:"POST"`
	SearchTimeout time.Duration `env:"SEARCH_TIMEOUT" envDefault:"10s"`
	// SearchRate is the sustained searches per second allowed per client IP.
	SearchRate  float64 `env:"SEARCH_RATE" envDefault:"1"`
	SearchBurst int     `env:"SEARCH_BURST" envDefault:"5"`

	GeoIPURL    string  `env:"GEOIP_URL" envDefault:"http://ip-api.com"`
	PhoneRegion string  `env:"PHONE_REGION" envDefault:"IL"`
	MapsAPIKey  string  `env:"MAPS_API_KEY"`
	FallbackLat float64 `env:"FALLBACK_LAT" envDefault:"32.070080"`
	FallbackLng float64 `env:"FALLBACK_LNG" envDefault:"34.794145"`

	IdentityClientID   string   `env:"IDENTITY_CLIENT_ID"`
	IdentityJWKSURL    string   `env:"IDENTITY_JWKS_URL" envDefault:"https://www.googleapis.com/oauth2/v3/certs"`
	IdentityIssuers    []string `env:"IDENTITY_ISSUERS" envSeparator:"," envDefault:"accounts.google.com,https://accounts.google.com"`
	IdentityHMACSecret string   `env:"IDENTITY_HMAC_SECRET"`

	// NotifyTimeout bounds each background registration or feedback call.
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"15s"`
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.StateBackend != "sqlite" && cfg.StateBackend != "redis" {
		return nil, fmt.Errorf("STATE_BACKEND must be sqlite or redis, got %q", cfg.StateBackend)
	}
	return &cfg, nil
}
