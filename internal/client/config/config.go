package config

import (
	"time"

	"github.com/fyndrai/fyndr/internal/common"
	"github.com/joho/godotenv"
)

// Storage backends for persisted session state.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds runtime settings for the Fyndr client.
//
// Fields:
//   - APIBaseURL: backend REST base, endpoints are appended to it.
//   - StorageBackend: where the session lives (sqlite, memory or redis).
//   - DatabasePath: SQLite file for the sqlite backend.
//   - RedisURL / Profile: Redis location and the key prefix of this profile.
//   - RequestTimeout: per-request deadline applied by the HTTP client.
//   - RefreshLeeway: an access token expiring within this window counts as expired.
//   - MetricsAddr: when set, Prometheus metrics are served there.
type Config struct {
	APIBaseURL     string
	StorageBackend string
	DatabasePath   string
	RedisURL       string
	Profile        string
	RequestTimeout time.Duration
	RefreshLeeway  time.Duration
	MetricsAddr    string
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = common.DefaultAPIBaseURL
	c.StorageBackend = StorageSQLite
	c.DatabasePath = "fyndr.db"
	c.RedisURL = "redis://127.0.0.1:6379/0"
	c.Profile = "fyndr"
	c.RequestTimeout = 30 * time.Second
	c.RefreshLeeway = 10 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), FYNDR_* environment variables (a .env file in the working
// directory is loaded first) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
