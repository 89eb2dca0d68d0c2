// Package tokens owns the client's access/refresh token pair.
//
// Store persists the pair through a storage.Store and answers whether a
// structurally valid access token is present. Manager hands out usable access
// tokens: it refreshes tokens that are known to be expired and recovers from
// HTTP 401 responses. Refreshes are single-flight per refresh token, so
// concurrent callers share one exchange and observe the same new pair.
//
// Errors match the sentinels in internal/common with errors.Is:
// ErrNoAccessToken, ErrRefreshTokenExpired, ErrAuthenticationFailed.
package tokens
