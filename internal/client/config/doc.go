// Package config loads runtime configuration for the Fyndr client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c/-config or FYNDR_CONFIG.
//  3. FYNDR_* environment variables, after loading ./.env if present.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend API base URL
//	-s string   storage backend: sqlite, memory or redis
//	-d string   SQLite database path
//	-r string   Redis URL
//	-t int      request timeout (seconds)
//	-m string   metrics listen address
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "http://localhost:8000/api",
//	  "storage_backend": "sqlite",
//	  "database_path": "fyndr.db",
//	  "request_timeout": "30s",
//	  "refresh_leeway": "10s"
//	}
package config
