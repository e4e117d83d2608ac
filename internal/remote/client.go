// Package remote is the typed client for the profile-and-matching API.
// Every call is authenticated with a bearer token, every response body is
// validated against the shape the caller declares, and transient failures
// are retried a bounded number of times.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxBodyBytes = 4 << 20

// Config holds configuration for the API client
type Config struct {
	// BaseURL includes the version segment, e.g. https://api.example.com/v1
	BaseURL string

	// Timeout bounds a single HTTP exchange (default: 10s)
	Timeout time.Duration

	Resilience ResilienceConfig

	// HTTPClient overrides the tuned default client
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client issues authenticated, validated API calls
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     *policy
	logger     *slog.Logger
}

// Request describes one API call
type Request struct {
	Method string
	Path   string
	Token  string
	Query  url.Values
	Body   any

	// Once disables automatic retries. State-changing commands that must not
	// be applied twice set it.
	Once bool

	// Timeout bounds the whole call, retries included (0: no extra bound)
	Timeout time.Duration
}

type rawResponse struct {
	status int
	body   []byte
}

// New creates a new API client
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote: base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("remote: invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(cfg.Timeout)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		policy:     newPolicy(cfg.Resilience, cfg.Logger),
		logger:     cfg.Logger,
	}, nil
}

// Do performs req and decodes the response body into out, then validates it.
// out must be a pointer to a struct, or nil to discard the body.
//
// Failures are *RemoteError for non-2xx responses, *SchemaViolation for
// bodies that do not match out, and *TransportError for network failures
// that survived the retries. Calls rejected before anything was sent wrap
// ErrNotSent.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	gate := &sendGate{}

	resp, err := c.policy.execute(ctx, req.Once, func(ctx context.Context) (*rawResponse, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempt, prev, ok := gate.enter()
		if !ok {
			return nil, ErrNotSent
		}
		if attempt > 1 {
			c.logger.Debug("retrying api call",
				"method", req.Method,
				"path", req.Path,
				"attempt", attempt,
				"request_id", requestID,
				"error", prev)
		}
		r, err := c.send(ctx, req, requestID)
		if err == nil && r.status >= http.StatusInternalServerError {
			err = c.remoteError(req, r)
		}
		gate.record(err)
		return r, err
	})
	if err != nil {
		sent, lastErr := gate.shut()
		if !sent {
			return fmt.Errorf("%w: %w", ErrNotSent, err)
		}
		// Report the failure of the last attempt rather than the wrapper
		// error of the retry or breaker layer.
		if lastErr != nil && !errors.Is(err, context.Canceled) {
			return lastErr
		}
		return err
	}

	if resp.status < 200 || resp.status >= 300 {
		return c.remoteError(req, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &SchemaViolation{Method: req.Method, Path: req.Path, cause: err}
	}
	return Validate(req.Method, req.Path, out)
}

// Get is a convenience wrapper for authenticated GET calls
func (c *Client) Get(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Token: token, Query: query}, out)
}

// Close releases resources held by the client
func (c *Client) Close() error {
	return c.policy.close()
}

// send performs a single HTTP exchange
func (c *Client) send(ctx context.Context, req Request, requestID string) (*rawResponse, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: fmt.Errorf("read body: %w", err)}
	}

	return &rawResponse{status: resp.StatusCode, body: data}, nil
}

func (c *Client) remoteError(req Request, resp *rawResponse) *RemoteError {
	re := &RemoteError{
		Method:  req.Method,
		Path:    req.Path,
		Status:  resp.status,
		RawBody: resp.body,
	}
	if env, err := DecodeEnvelope(resp.body); err == nil {
		re.DomainCode = env.Errors[0].Code
	}
	c.logger.Debug("api call failed",
		"method", req.Method,
		"path", req.Path,
		"status", resp.status,
		"code", re.DomainCode)
	return re
}

// sendGate tracks whether an exchange was started. Once shut, late
// attempts (a bulkhead worker picking up a request whose queue wait timed
// out) are refused so a request reported as not sent never goes out.
type sendGate struct {
	mu       sync.Mutex
	attempts int
	lastErr  error
	closed   bool
}

func (g *sendGate) enter() (attempt int, prev error, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return 0, nil, false
	}
	g.attempts++
	return g.attempts, g.lastErr, true
}

func (g *sendGate) record(err error) {
	g.mu.Lock()
	g.lastErr = err
	g.mu.Unlock()
}

func (g *sendGate) shut() (sent bool, lastErr error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return g.attempts > 0, g.lastErr
}
