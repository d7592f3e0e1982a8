// Package backend is the HTTP client for the hotel API that owns rooms,
// gallery entries, bookings and user accounts.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/metrics"
)

const (
	defaultTimeout             = 15 * time.Second
	errorBodyReadLimit   int64 = 4096
	accessTokenHeader          = "x-access-token"
	defaultFailureReason       = "request failed"
)

var errBaseURLRequired = errors.New("backend base url is required")

// Client calls the hotel API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.BackendMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds every request made by the client. The HTTP client is
// copied so one passed through WithHTTPClient is left untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			hc := *c.httpClient
			hc.Timeout = timeout
			c.httpClient = &hc
		}
	}
}

// WithMetrics records per-operation latency and status.
func WithMetrics(m *metrics.BackendMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the hotel API client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return client, nil
}

// StatusError is a non-2xx answer from the hotel API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend status %d: %s", e.StatusCode, e.Message)
}

// StatusOf extracts the upstream HTTP status from err, if any.
func StatusOf(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

// MessageOf returns the message the hotel API attached to a failure.
func MessageOf(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

type request struct {
	operation   string
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

func jsonRequest(operation, method, path, token string, payload any) (request, error) {
	req := request{operation: operation, method: method, path: path, token: token}
	if payload == nil {
		return req, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return req, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+operation+" request")
	}
	req.body = bytes.NewReader(raw)
	req.contentType = "application/json"
	return req, nil
}

// do executes req and decodes a 2xx JSON body into out. It returns the
// response status so callers can distinguish 200 from 201.
func (c *Client) do(ctx context.Context, req request, out any) (int, error) {
	if c == nil {
		closeBody(req.body)
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path), req.body)
	if err != nil {
		closeBody(req.body)
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build "+req.operation+" request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token := strings.TrimSpace(req.token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
		httpReq.Header.Set(accessTokenHeader, token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.Observe(req.operation, 0, time.Since(start))
		return 0, transportError(ctx, req.operation, err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.Observe(req.operation, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: extractMessage(raw)}
		msg := statusErr.Message
		if msg == "" {
			msg = req.operation + " " + defaultFailureReason
		}
		return resp.StatusCode, pkgerrors.Wrap(pkgerrors.CodeForStatus(resp.StatusCode), statusErr, msg)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, transportError(ctx, req.operation, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+req.operation+" response")
	}
	return resp.StatusCode, nil
}

// closeBody releases streamed bodies that never reached the transport.
func closeBody(body io.Reader) {
	if rc, ok := body.(io.Closer); ok {
		_ = rc.Close()
	}
}

func transportError(ctx context.Context, operation string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return pkgerrors.Wrap(pkgerrors.CodeCanceled, err, operation+" cancelled")
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, operation+" timed out")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+operation+" request")
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// extractMessage pulls the human-readable message out of an error body. The
// hotel API uses {"message": "..."}; some routes answer {"error": "..."}.
func extractMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return ""
	}
	if m := strings.TrimSpace(body.Message); m != "" {
		return m
	}
	if s, ok := body.Error.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}
