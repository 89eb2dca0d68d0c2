// Package common contains shared constants and sentinel errors used across
// Fyndr components.
package common

const (
	// AuthorizationHeaderName carries the bearer access token on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates a client request with backend logs.
	RequestIDHeaderName = "X-Request-ID"

	// DefaultAPIBaseURL is the backend base URL used when nothing else is configured.
	DefaultAPIBaseURL = "http://localhost:8000/api"
)
