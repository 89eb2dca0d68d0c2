package api

// attempt is the state of one logical call across its retry.
type attempt struct {
	url       string
	method    string
	requestID string

	// explicitToken is sent as-is and disables 401 recovery.
	explicitToken string
	// anonymous sends no credentials and disables 401 recovery.
	anonymous bool
	// recoveryAttempted is set once Handle401Error has run for this call.
	recoveryAttempted bool
}

type RequestOption func(*attempt)

// WithToken authenticates the call with token instead of the stored one.
// Such calls are never retried after a 401. An empty token is ignored.
func WithToken(token string) RequestOption {
	return func(a *attempt) { a.explicitToken = token }
}

// WithoutAuth sends the call without credentials, as for login.
func WithoutAuth() RequestOption {
	return func(a *attempt) { a.anonymous = true }
}

func newAttempt(url, method string, opts []RequestOption) *attempt {
	a := &attempt{url: url, method: method, requestID: newRequestID()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
