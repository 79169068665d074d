package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds everything the process needs, resolved once at startup
// and read-only thereafter. Values come from an optional YAML file
// (CONFIG_PATH), overridden by environment variables; a local .env file
// is loaded first if present.
type Config struct {
	Addr         string        `yaml:"addr" env:"ADDR" env-default:":8080"`
	DatabasePath string        `yaml:"database_path" env:"DATABASE_PATH" env-default:"shoutbox.db"`
	JWTSecret    string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"30m"`
	BcryptCost   int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"12"`

	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"*"`

	// Throttle settings for the credential endpoints.
	LoginRate  float64 `yaml:"login_rate" env:"LOGIN_RATE" env-default:"1"`
	LoginBurst float64 `yaml:"login_burst" env:"LOGIN_BURST" env-default:"5"`
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	// Ignore a missing .env; it is a local development convenience.
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost must be between %d and 14, got %d", bcrypt.MinCost, c.BcryptCost)
	}
	return nil
}
