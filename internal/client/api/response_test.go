package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyndrai/fyndr/internal/common"
)

func TestNewHTTPError_Message(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail":"Not found."}`, "Not found."},
		{"message", `{"message":"Quota exceeded","code":"quota"}`, "Quota exceeded"},
		{"detail wins over fields", `{"email":["bad"],"detail":"Invalid input."}`, "Invalid input."},
		{
			"first three fields in body order",
			`{"username":["This field is required."],"email":["Enter a valid email address."],"password":["Too short.","Too common."],"role":["Invalid choice."]}`,
			"username: This field is required.; email: Enter a valid email address.; password: Too short. Too common.",
		},
		{"non field errors unprefixed", `{"non_field_errors":["Passwords do not match."]}`, "Passwords do not match."},
		{"string field value", `{"email":"taken"}`, "email: taken"},
		{"empty object", `{}`, "request failed with status 400 Bad Request"},
		{"not an object", `["oops"]`, "request failed with status 400 Bad Request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newHTTPError(http.StatusBadRequest, []byte(tt.body))
			assert.Equal(t, tt.want, e.Message)
			assert.Equal(t, http.StatusBadRequest, e.Status)
		})
	}
}

func TestNewHTTPError_Fields(t *testing.T) {
	e := newHTTPError(http.StatusBadRequest, []byte(`{"email":["already exists"],"profile":{"skills":["required"]},"detail":"x"}`))

	want := map[string][]string{
		"email":   {"already exists"},
		"profile": {`{"skills":["required"]}`},
	}
	if diff := cmp.Diff(want, e.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify(t *testing.T) {
	raw, err := classify(http.StatusOK, "application/json; charset=utf-8", []byte(` {"ok":true} `))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	raw, err = classify(http.StatusOK, "application/problem+json", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))

	_, err = classify(http.StatusOK, "application/json", []byte(`{broken`))
	var fmtErr *ResponseFormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.False(t, fmtErr.HTML)

	// HTML served with a misleading content type is still recognised.
	_, err = classify(http.StatusInternalServerError, "", []byte("<html><body>Server Error</body></html>"))
	require.ErrorAs(t, err, &fmtErr)
	assert.True(t, fmtErr.HTML)

	_, err = classify(http.StatusNotFound, "application/json", []byte(`{"detail":"Not found."}`))
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestNewAuthRecoveryError_Kind(t *testing.T) {
	tests := []struct {
		err  error
		want RecoveryKind
	}{
		{fmt.Errorf("%w: %w", common.ErrAuthenticationFailed, common.ErrNoAccessToken), RecoveryNoToken},
		{fmt.Errorf("%w: %w", common.ErrAuthenticationFailed, common.ErrRefreshTokenExpired), RecoveryRefreshExpired},
		{fmt.Errorf("%w: %w", common.ErrAuthenticationFailed, errors.New("disk full")), RecoveryAuthenticationFailed},
	}
	for _, tt := range tests {
		e := newAuthRecoveryError(tt.err)
		assert.Equal(t, tt.want, e.Kind, tt.err.Error())
		assert.ErrorIs(t, e, common.ErrAuthenticationFailed)
		assert.Contains(t, e.Error(), tt.want.String())
	}
}
