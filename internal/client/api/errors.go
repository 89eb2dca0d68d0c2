package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fyndrai/fyndr/internal/common"
)

// NetworkError is a transport failure: no HTTP response was received.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("unable to reach %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ResponseFormatError is returned when the backend answers with something
// other than JSON. HTML is set for HTML error pages.
type ResponseFormatError struct {
	Status      int
	ContentType string
	Body        string // truncated
	HTML        bool
}

func (e *ResponseFormatError) Error() string {
	if e.HTML {
		return fmt.Sprintf("server returned an HTML error page (status %d): %s", e.Status, e.Body)
	}
	if e.ContentType == "" {
		return fmt.Sprintf("server returned a non-JSON response (status %d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("server returned %s instead of JSON (status %d): %s", e.ContentType, e.Status, e.Body)
}

// HTTPError is a JSON error response. Detail is the body's detail or message
// text; Fields holds the field-keyed validation messages, including
// non_field_errors.
type HTTPError struct {
	Status  int
	Message string
	Detail  string
	Fields  map[string][]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap maps well-known statuses to the common sentinels.
func (e *HTTPError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case e.Status == http.StatusNotFound:
		return common.ErrorNotFound
	case e.Status == http.StatusConflict:
		return common.ErrorAlreadyExists
	case e.Status >= http.StatusInternalServerError:
		return common.ErrorInternal
	}
	return nil
}

// RecoveryKind says why 401 recovery failed.
type RecoveryKind int

const (
	// RecoveryAuthenticationFailed covers every failure not listed below.
	RecoveryAuthenticationFailed RecoveryKind = iota
	RecoveryNoToken
	RecoveryRefreshExpired
)

func (k RecoveryKind) String() string {
	switch k {
	case RecoveryNoToken:
		return "no_access_token"
	case RecoveryRefreshExpired:
		return "refresh_token_expired"
	default:
		return "authentication_failed"
	}
}

// AuthRecoveryError is returned when a 401 could not be recovered from. The
// session has been cleared by the time the caller sees it; callers should
// send the user to the login page.
type AuthRecoveryError struct {
	Kind RecoveryKind
	Err  error
}

func newAuthRecoveryError(err error) *AuthRecoveryError {
	kind := RecoveryAuthenticationFailed
	switch {
	case errors.Is(err, common.ErrNoAccessToken):
		kind = RecoveryNoToken
	case errors.Is(err, common.ErrRefreshTokenExpired):
		kind = RecoveryRefreshExpired
	}
	return &AuthRecoveryError{Kind: kind, Err: err}
}

func (e *AuthRecoveryError) Error() string {
	return fmt.Sprintf("session recovery failed (%s): %v", e.Kind, e.Err)
}

func (e *AuthRecoveryError) Unwrap() error { return e.Err }
