// Package config loads process configuration from the environment via
// envdecode struct tags. Flags on the CLI override these values.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config is the full environment-driven configuration.
type Config struct {
	ListenAddr   string `env:"LISTEN_ADDR,default=:8787"`
	EndpointPath string `env:"MCP_ENDPOINT_PATH,default=/mcp"`

	SearchProvider string        `env:"SEARCH_PROVIDER,default=searxng"`
	SearchAPIURL   string        `env:"SEARCH_API_URL"`
	SearchAPIKey   string        `env:"SEARCH_API_KEY"`
	SearchTimeout  time.Duration `env:"SEARCH_TIMEOUT,default=15s"`

	ScrapeConcurrency int `env:"SCRAPE_CONCURRENCY,default=4"`

	SessionIdleTimeout  time.Duration `env:"SESSION_IDLE_TIMEOUT,default=30m"`
	SessionReapInterval time.Duration `env:"SESSION_REAP_INTERVAL,default=1m"`
	HeartbeatInterval   time.Duration `env:"HEARTBEAT_INTERVAL,default=15s"`

	// RedisAddr switches the event ledger from in-memory to redis when set.
	RedisAddr   string `env:"REDIS_ADDR"`
	RedisPrefix string `env:"REDIS_KEY_PREFIX,default=websearch:"`

	// AuthJWTSecret enables bearer-token authentication on the HTTP transport
	// when set.
	AuthJWTSecret string `env:"AUTH_JWT_SECRET"`
	AuthIssuer    string `env:"AUTH_JWT_ISSUER"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// Load populates a Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &cfg, nil
}
