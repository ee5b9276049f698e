package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port             int    `env:"PORT" envDefault:"8080"`
	DatabaseURL      string `env:"DATABASE_URL,required"`
	RedisURL         string `env:"REDIS_URL,required"`
	TokenSecret      string `env:"TOKEN_SECRET,required"`
	TokenExpiryHours int    `env:"TOKEN_EXPIRY_HOURS" envDefault:"24"`
	UsageRetainDays  int    `env:"USAGE_RETAIN_DAYS" envDefault:"90"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.TokenExpiryHours) * time.Hour
}

func (c *Config) UsageRetention() time.Duration {
	return time.Duration(c.UsageRetainDays) * 24 * time.Hour
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if c.TokenExpiryHours <= 0 {
		return fmt.Errorf("TOKEN_EXPIRY_HOURS must be positive, got %d", c.TokenExpiryHours)
	}

	if isProduction {
		if err := validateSecret("TOKEN_SECRET", c.TokenSecret); err != nil {
			return err
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
