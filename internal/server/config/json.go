package config

import (
	"encoding/json"
	"os"

	"github.com/fyndrai/fyndr/internal/flagx"
	"github.com/fyndrai/fyndr/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "15m" as well
// as integer nanoseconds.
type JsonConfig struct {
	Addr                         string         `json:"addr"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	AllowedOrigins               []string       `json:"allowed_origins"`
	LoginRatePerMinute           int            `json:"login_rate_per_minute"`
	LogLevel                     string         `json:"log_level"`
	LogFormat                    string         `json:"log_format"`
}

// parseJson loads the file given by -c/-config (or DEVSERVER_CONFIG) into
// config. Absent keys keep their current value. Read or decode errors panic.
func parseJson(config *Config) {
	path := flagx.ConfigPath(os.Args[1:], "DEVSERVER_CONFIG")
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.Addr, c.Addr)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.LoginRatePerMinute > 0 {
		config.LoginRatePerMinute = c.LoginRatePerMinute
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
