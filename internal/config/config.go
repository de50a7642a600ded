package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// insecureDefaultSecret is the development fallback for signing tokens. It is
// deliberately refused when ENV=production.
const insecureDefaultSecret = "dev-secret-change-in-production"

// TokenTTL is the fixed lifetime of issued bearer tokens. Expiry is the only
// invalidation mechanism; there is no refresh or revocation.
const TokenTTL = 2 * time.Hour

type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	Env          string `env:"ENV" envDefault:"development"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/traintrack.db"`
	JWTSecret    string `env:"JWT_SECRET" envDefault:"dev-secret-change-in-production"`
	StaticDir    string `env:"STATIC_DIR" envDefault:"web"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Env == "production" && cfg.JWTSecret == insecureDefaultSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg, nil
}
