package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the storefront session backend.
type Config struct {
	AppEnv         string `env:"APP_ENV" envDefault:"development"`
	AppPort        string `env:"APP_PORT" envDefault:"3000"`
	BackendURL     string `env:"BACKEND_URL" envDefault:"http://localhost:4000/api"`
	RedisAddr      string `env:"REDIS_ADDR"`
	CartStoreDir   string `env:"CART_STORE_DIR" envDefault:".storefront"`
	DefaultCountry string `env:"DEFAULT_COUNTRY" envDefault:"México"`

	// Shopper identity for this session; the token comes from the external
	// auth service.
	Username    string `env:"SHOP_USERNAME"`
	Email       string `env:"SHOP_EMAIL"`
	AccessToken string `env:"ACCESS_TOKEN"`
}

// Load reads .env (if present) and parses configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
