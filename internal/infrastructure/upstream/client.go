// Package upstream is the REST client for the commerce backend: the auth,
// store and channel services the admin session depends on.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/application/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/logger"
)

const (
	// StoreHostHeader tells the backend which storefront host the call is
	// made for; the backend resolves the tenant from it.
	StoreHostHeader = "X-Store-Host"

	maxResponseSize = 1 << 20
)

var (
	// ErrMalformedResponse is returned when a 2xx body cannot be decoded
	ErrMalformedResponse = errors.New("upstream: malformed response")

	errNoData = fmt.Errorf("%w: no data", ErrMalformedResponse)
)

// Config holds the client settings
type Config struct {
	BaseURL string
	Timeout time.Duration // 0 = none
}

// Client calls the backend services
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client. Requests are traced through otelhttp.
func NewClient(cfg Config, zapLogger *zap.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream: invalid base url %q", cfg.BaseURL)
	}

	c := &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zapLogger.Named("upstream"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope is the backend's response wrapper
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []fieldError    `json:"errors"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, caller session.Caller, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("upstream: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("upstream: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller.Host != "" {
		req.Header.Set(StoreHostHeader, caller.Host)
	}
	if caller.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+caller.AccessToken)
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &Error{Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}

	logger.Enrich(ctx, c.logger).Debug("Upstream call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := &Error{Method: method, Path: path, Status: resp.StatusCode}
		if decodeErr == nil {
			e.Message = env.Message
			e.Fields = fieldMap(env.Errors)
		}
		return e
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, decodeErr)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: %s %s", errNoData, method, path)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}

func fieldMap(errs []fieldError) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	m := make(map[string]string, len(errs))
	for _, fe := range errs {
		if fe.Field != "" {
			m[fe.Field] = fe.Message
		}
	}
	return m
}
