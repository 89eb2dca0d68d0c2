package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays config with DEVSERVER_* variables. Malformed numbers and
// durations are ignored.
func parseEnv(config *Config) {
	setString(&config.Addr, env("DEVSERVER_ADDR"))
	setString(&config.SecretKey, env("DEVSERVER_SECRET_KEY"))
	setString(&config.LogLevel, env("DEVSERVER_LOG_LEVEL"))
	setString(&config.LogFormat, env("DEVSERVER_LOG_FORMAT"))

	if d, err := time.ParseDuration(env("DEVSERVER_ACCESS_TTL")); err == nil && d > 0 {
		config.AccessTokenValidityDuration = d
	}
	if d, err := time.ParseDuration(env("DEVSERVER_REFRESH_TTL")); err == nil && d > 0 {
		config.RefreshTokenValidityDuration = d
	}
	if origins := splitCSV(env("DEVSERVER_CORS_ORIGINS")); len(origins) > 0 {
		config.AllowedOrigins = origins
	}
	if n, err := strconv.Atoi(env("DEVSERVER_LOGIN_RPM")); err == nil && n > 0 {
		config.LoginRatePerMinute = n
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
