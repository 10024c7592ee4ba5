package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Environment variables read by NewAdvisorFromEnv
const (
	EnvAdviceURL   = "FINPLAN_ADVICE_URL"
	EnvAdviceToken = "FINPLAN_ADVICE_TOKEN"
)

const (
	defaultTimeout    = 20 * time.Second
	defaultMaxRetries = 2
	defaultBackoff    = 500 * time.Millisecond
	maxResponseBytes  = 1 << 20
)

// Request carries computed figures to the advice service
type Request struct {
	RequestID string `json:"requestId"`
	Tool      string `json:"tool"` // sip, goal, loan, tax, compare
	Figures   any    `json:"figures"`
}

// Advisor produces commentary for computed figures
type Advisor interface {
	Advise(ctx context.Context, req Request) (Summary, error)
}

// StatusError reports a non-2xx response from the service
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("advice service returned status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying may succeed
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client posts figures to an HTTP advice endpoint with per-attempt timeouts and
// bounded retries. It is always called after the engine has produced its result.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithToken sets the bearer token sent with each request
func WithToken(token string) Option { return func(c *Client) { c.token = token } }

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

// WithTimeout sets the per-attempt timeout
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithRetries sets the retry count and the initial backoff, which doubles per attempt
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) { c.maxRetries, c.backoff = n, backoff }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// NewClient creates a client for the endpoint at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Advise posts the request and resolves the response body into a Summary
func (c *Client) Advise(ctx context.Context, req Request) (Summary, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode advice request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			c.logger.Debug("retrying advice request",
				zap.String("request_id", req.RequestID),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		data, err := c.post(ctx, req.RequestID, body)
		if err == nil {
			return ParseSummary(data)
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, fmt.Errorf("advice request %s failed: %w", req.RequestID, lastErr)
}

func (c *Client) post(ctx context.Context, requestID string, body []byte) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	return data, nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

// FallbackChain asks Primary first and uses Fallback when it fails. Cancellation of the
// caller's context is returned as-is.
type FallbackChain struct {
	Primary  Advisor
	Fallback Advisor
	Logger   *zap.Logger
}

// Advise implements Advisor
func (f *FallbackChain) Advise(ctx context.Context, req Request) (Summary, error) {
	s, err := f.Primary.Advise(ctx, req)
	if err == nil {
		return s, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if f.Logger != nil {
		f.Logger.Warn("advice service unavailable, using fallback", zap.String("tool", req.Tool), zap.Error(err))
	}
	return f.Fallback.Advise(ctx, req)
}

// NewAdvisorFromEnv returns an HTTP client backed by FallbackAdvisor when
// FINPLAN_ADVICE_URL is set, and FallbackAdvisor alone otherwise. When
// FINPLAN_ADVICE_CACHE_REDIS is set, service responses are cached in Redis.
func NewAdvisorFromEnv(logger *zap.Logger) Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	url := os.Getenv(EnvAdviceURL)
	if url == "" {
		return FallbackAdvisor{}
	}
	var primary Advisor = NewClient(url, WithToken(os.Getenv(EnvAdviceToken)), WithLogger(logger))
	if addr := os.Getenv(EnvAdviceCache); addr != "" {
		primary = NewCachingAdvisor(primary, NewRedisCache(addr), logger)
	}
	return &FallbackChain{Primary: primary, Fallback: FallbackAdvisor{}, Logger: logger}
}
