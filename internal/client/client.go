// Package client is the storefront side of the commerce API.
//
// Every call goes through Send, which decodes successful bodies by content
// type and turns failures into a single *apierr.Error whose message is safe to
// show to a user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rookgm/storefront/internal/apierr"
	"github.com/rookgm/storefront/internal/logger"
	"go.uber.org/zap"
)

// default request timeout
const defaultTimeout = 5 * time.Second

// TokenSource supplies the bearer token, empty when signed out
type TokenSource interface {
	Get() string
}

// Client represents HTTP client of the commerce API.
// It is safe for concurrent use.
type Client struct {
	client  *http.Client
	baseURL string
	tokens  TokenSource
	log     *zap.Logger
}

// Option configures Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the timeout of a whole exchange.
// The http.Client is copied, a client passed to WithHTTPClient is not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.client
		hc.Timeout = d
		c.client = &hc
	}
}

// WithTokenSource sets where bearer tokens come from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger sets logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates new Client instance
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     logger.Log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestConfig struct {
	token  *string
	header http.Header
}

// RequestOption configures a single request
type RequestOption func(*requestConfig)

// WithToken sends token instead of the one from the token source
func WithToken(token string) RequestOption {
	return func(rc *requestConfig) {
		rc.token = &token
	}
}

// WithHeader adds a request header
func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) {
		rc.header.Set(key, value)
	}
}

// URL returns absolute URL of an API path
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Send performs one API exchange. A non-nil body is sent as JSON.
// Non-2xx responses are returned as *apierr.Error, network failures as
// *apierr.TransportError.
func (c *Client) Send(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Result, error) {
	rc := requestConfig{header: make(http.Header)}
	for _, opt := range opts {
		opt(&rc)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.token(rc); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range rc.header {
		req.Header[key] = values
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		c.log.Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, &apierr.TransportError{Method: method, URL: url, Err: err}
	}

	res, err := Decode(resp)

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	if err != nil {
		c.log.Debug("api error", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	return res, nil
}

func (c *Client) token(rc requestConfig) string {
	if rc.token != nil {
		return *rc.token
	}
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Get()
}

// call sends in and decodes the response into out, out may be nil
func (c *Client) call(ctx context.Context, method, path string, in, out any, opts ...RequestOption) error {
	res, err := c.Send(ctx, method, path, in, opts...)
	if err != nil {
		return err
	}
	return res.Into(out)
}
