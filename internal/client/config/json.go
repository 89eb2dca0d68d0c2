package config

import (
	"encoding/json"
	"os"

	"github.com/fyndrai/fyndr/internal/flagx"
	"github.com/fyndrai/fyndr/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Zero values
// leave the corresponding Config field untouched.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	StorageBackend string         `json:"storage_backend"`
	DatabasePath   string         `json:"database_path"`
	RedisURL       string         `json:"redis_url"`
	Profile        string         `json:"profile"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	RefreshLeeway  timex.Duration `json:"refresh_leeway"`
	MetricsAddr    string         `json:"metrics_addr"`
	LogLevel       string         `json:"log_level"`
	LogFormat      string         `json:"log_format"`
}

// parseJson overlays cfg with the JSON file named by -c/-config or
// FYNDR_CONFIG. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:], "FYNDR_CONFIG")
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.Profile, jc.Profile)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RefreshLeeway.Duration > 0 {
		cfg.RefreshLeeway = jc.RefreshLeeway.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
