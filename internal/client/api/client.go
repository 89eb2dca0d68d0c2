package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fyndrai/fyndr/internal/client/metrics"
	"github.com/fyndrai/fyndr/internal/common"
	"github.com/fyndrai/fyndr/internal/logging"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// TokenSource is what the client needs from the token manager.
type TokenSource interface {
	IsAuthenticated(ctx context.Context) bool
	GetValidAccessToken(ctx context.Context) (string, error)
	Handle401Error(ctx context.Context) (string, error)
}

// Client talks to the backend rooted at baseURL.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	timeout time.Duration
	logger  logging.Logger
	metrics *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each round trip. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a client without a token source; every request is sent
// unauthenticated until WithTokenSource is used.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTokenSource returns a copy of c that authenticates through ts.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request sends body as JSON for POST, PUT and PATCH and ignores it for other
// methods. It returns the JSON payload of a successful response.
func (c *Client) Request(ctx context.Context, endpoint, method string, body any, opts ...RequestOption) (json.RawMessage, error) {
	var payload []byte
	if body != nil && hasBody(method) {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = b
	}
	src := func() (io.Reader, string) {
		if payload == nil {
			return nil, ""
		}
		return bytes.NewReader(payload), "application/json"
	}
	return c.do(ctx, newAttempt(c.url(endpoint), method, opts), src)
}

// RequestForm sends form as multipart/form-data. The boundary-bearing content
// type is produced by the encoder.
func (c *Client) RequestForm(ctx context.Context, endpoint, method string, form *Form, opts ...RequestOption) (json.RawMessage, error) {
	payload, contentType, err := form.encode()
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	src := func() (io.Reader, string) {
		return bytes.NewReader(payload), contentType
	}
	return c.do(ctx, newAttempt(c.url(endpoint), method, opts), src)
}

// RequestJSON is Request with the payload decoded into T.
func RequestJSON[T any](ctx context.Context, c *Client, endpoint, method string, body any, opts ...RequestOption) (T, error) {
	var out T
	raw, err := c.Request(ctx, endpoint, method, body, opts...)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return out, nil
}

type bodySource func() (io.Reader, string)

func (c *Client) do(ctx context.Context, a *attempt, body bodySource) (json.RawMessage, error) {
	log := c.logger.With("method", a.method, "url", a.url, "request_id", a.requestID)
	token := c.resolveToken(ctx, a, log)

	for {
		payload, err := c.send(ctx, a, token, body)
		if !c.shouldRecover(ctx, a, err) {
			return payload, err
		}

		a.recoveryAttempted = true
		log.Debug(ctx, "received 401, recovering session")
		token, err = c.tokens.Handle401Error(ctx)
		if err != nil {
			return nil, newAuthRecoveryError(err)
		}
		c.metrics.IncRetry()
	}
}

func (c *Client) resolveToken(ctx context.Context, a *attempt, log logging.Logger) string {
	switch {
	case a.explicitToken != "":
		return a.explicitToken
	case a.anonymous || c.tokens == nil:
		return ""
	case !c.tokens.IsAuthenticated(ctx):
		return ""
	}
	token, err := c.tokens.GetValidAccessToken(ctx)
	if err != nil {
		log.Debug(ctx, "sending without credentials", "reason", err)
		return ""
	}
	return token
}

// shouldRecover decides whether err is a 401 this call may still recover from.
func (c *Client) shouldRecover(ctx context.Context, a *attempt, err error) bool {
	httpErr, ok := err.(*HTTPError)
	if !ok || httpErr.Status != http.StatusUnauthorized {
		return false
	}
	if a.recoveryAttempted || a.explicitToken != "" || a.anonymous || c.tokens == nil {
		return false
	}
	return c.tokens.IsAuthenticated(ctx)
}

func (c *Client) send(ctx context.Context, a *attempt, token string, body bodySource) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reader, contentType := body()
	req, err := http.NewRequestWithContext(ctx, a.method, a.url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, a.requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(a.method, 0, "network", start)
		return nil, &NetworkError{URL: a.url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.ObserveRequest(a.method, 0, "network", start)
		return nil, &NetworkError{URL: a.url, Err: fmt.Errorf("read response: %w", err)}
	}
	c.metrics.ObserveRequest(a.method, resp.StatusCode, "", start)

	return classify(resp.StatusCode, resp.Header.Get("Content-Type"), data)
}

func (c *Client) url(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func newRequestID() string {
	return uuid.NewString()
}
