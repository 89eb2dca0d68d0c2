package config

import (
	"os"
	"strings"
	"time"
)

// parseEnv overlays cfg with FYNDR_* environment variables. Unparseable
// durations are ignored.
func parseEnv(cfg *Config) {
	setString(&cfg.APIBaseURL, env("FYNDR_API_BASE_URL"))
	setString(&cfg.StorageBackend, env("FYNDR_STORAGE"))
	setString(&cfg.DatabasePath, env("FYNDR_DB_PATH"))
	setString(&cfg.RedisURL, env("FYNDR_REDIS_URL"))
	setString(&cfg.Profile, env("FYNDR_PROFILE"))
	setString(&cfg.MetricsAddr, env("FYNDR_METRICS_ADDR"))
	setString(&cfg.LogLevel, env("FYNDR_LOG_LEVEL"))
	setString(&cfg.LogFormat, env("FYNDR_LOG_FORMAT"))

	if d, err := time.ParseDuration(env("FYNDR_REQUEST_TIMEOUT")); err == nil && d > 0 {
		cfg.RequestTimeout = d
	}
	if d, err := time.ParseDuration(env("FYNDR_REFRESH_LEEWAY")); err == nil && d >= 0 {
		cfg.RefreshLeeway = d
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
