package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// APIBaseURL is the single base URL of the marketplace REST API.
	APIBaseURL string `env:"API_BASE_URL, default=http://localhost:5000"`

	Redis   RedisConfig
	Session SessionConfig
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SessionConfig struct {
	// Store selects the credential store backend: "redis" or "memory".
	Store        string        `env:"SESSION_STORE,         default=redis"`
	StoreTTL     time.Duration `env:"SESSION_STORE_TTL,     default=720h"`
	RegistrySize int           `env:"SESSION_REGISTRY_SIZE, default=10000"`
	CookieMaxAge int           `env:"COOKIE_MAX_AGE,        default=2592000"`
	CookieSecure bool          `env:"COOKIE_SECURE,         default=false"`
	// TrustCacheOnNetworkError keeps the cached profile when the identity
	// check gets no response from the API.
	TrustCacheOnNetworkError bool `env:"TRUST_CACHE_ON_NETWORK_ERROR, default=true"`
}

// IsDevelopment reports whether the portal runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
