package editorapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"agentflow/internal/logging"
)

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://localhost:8000"

const defaultUserAgent = "agentflow-editor/dev"

// HTTPDoer describes the HTTP client used for REST calls.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Dialer opens the WebSocket described by cfg.
type Dialer func(ctx context.Context, cfg *websocket.Config) (*websocket.Conn, error)

// Client talks to one editor backend. It holds no mutable state after New and
// is safe for concurrent use.
type Client struct {
	baseURL   string
	http      HTTPDoer
	dial      Dialer
	logger    *slog.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. The default is
// http.DefaultClient, so no client-side timeout applies.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithDialer overrides how the real-time channel is opened.
func WithDialer(dial Dialer) Option {
	return func(c *Client) {
		if dial != nil {
			c.dial = dial
		}
	}
}

// WithLogger routes request diagnostics and WebSocket errors to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// New returns a client for baseURL. A blank baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	client := &Client{
		baseURL:   baseURL,
		http:      http.DefaultClient,
		dial:      dialWebSocket,
		logger:    slog.Default(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "editorapi")
	return client
}

// BaseURL returns the address every request is built from.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func dialWebSocket(ctx context.Context, cfg *websocket.Config) (*websocket.Conn, error) {
	return cfg.DialContext(ctx)
}

func escapeID(id string) string {
	return url.PathEscape(id)
}

func (c *Client) getJSON(ctx context.Context, op Operation, path string, out any) error {
	return c.do(ctx, op, http.MethodGet, path, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, op Operation, method, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, op, method, path, bytes.NewReader(body), "application/json", out)
}

// do performs one request. Transport and decode errors are returned as-is; a
// non-2xx status becomes a *RequestError without reading the body as JSON.
func (c *Client) do(ctx context.Context, op Operation, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		c.logger.Debug("editor request failed",
			logging.String(logging.FieldOperation, string(op)),
			logging.String("method", method),
			logging.String("path", path),
			logging.Duration("latency", latency),
			logging.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("editor request completed",
		logging.String(logging.FieldOperation, string(op)),
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &RequestError{Op: op, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
