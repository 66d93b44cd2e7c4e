// Package client implements the HTTP client for the email-triage backend.
// It is a faithful wire mapping: filters that the backend supports become
// query parameters, everything else (local intent filtering, selection,
// retries) is the caller's concern.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/codebharat/mailtriage/internal/triage"
)

// ErrNotReady is returned when the backend is reachable but the email
// endpoints are not served yet (404). The backend loads its models at
// startup, so this is a retryable condition rather than a hard failure.
var ErrNotReady = eris.New("backend not ready")

// StatusError is a non-success response carrying the backend's structured
// detail message, surfaced verbatim to the user.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
}

// detailBody is the backend's error response shape.
type detailBody struct {
	Detail string `json:"detail"`
}

// escalateRequest is the body for POST /escalate/{id}.
type escalateRequest struct {
	EmailID  int64  `json:"email_id"`
	UserRole string `json:"user_role"`
}

// syncResponse is the body for a successful POST /sync-gmail.
type syncResponse struct {
	Message string `json:"message"`
}

// escalateResponse is the body for a successful POST /escalate/{id}.
type escalateResponse struct {
	Msg string `json:"msg"`
}

// Client talks to the triage backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTimeout sets the per-request timeout on the underlying *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a Client for the backend at baseURL (no trailing slash).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListEmails fetches the email directory. Priority and sentiment filters are
// passed as query parameters; intent filters contribute none and are applied
// by the caller. A 404 maps to ErrNotReady.
func (c *Client) ListEmails(ctx context.Context, filter triage.Filter) ([]triage.Email, error) {
	url := c.baseURL + "/emails"
	if params := filter.QueryParams(); len(params) > 0 {
		url += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "build emails request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotReady
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var emails []triage.Email
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return nil, eris.Wrap(err, "decode emails response")
	}
	c.logger.Debug("fetched emails", "count", len(emails), "filter", string(filter))
	return emails, nil
}

// TriggerSync asks the backend to start an inbox sync job. Ingestion runs in
// the background server-side; the caller should re-fetch after a delay.
// Returns the server's informational message.
func (c *Client) TriggerSync(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync-gmail", nil)
	if err != nil {
		return "", eris.Wrap(err, "build sync request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.statusError(resp)
	}

	var body syncResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// An opaque OK is still a success; the message is advisory.
		return "", nil
	}
	return body.Message, nil
}

// Escalate performs the escalation action on one email. The role is carried
// as informational payload; the endpoint is the same for both roles.
// Returns the server-supplied outcome message.
func (c *Client) Escalate(ctx context.Context, id int64, role triage.Role) (string, error) {
	payload, err := json.Marshal(escalateRequest{EmailID: id, UserRole: string(role)})
	if err != nil {
		return "", eris.Wrap(err, "encode escalate request")
	}

	url := fmt.Sprintf("%s/escalate/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", eris.Wrap(err, "build escalate request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.statusError(resp)
	}

	var body escalateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", eris.Wrap(err, "decode escalate response")
	}
	return body.Msg, nil
}

// statusError reads a non-success response into a StatusError, falling back
// to a generic detail when the body carries none.
func (c *Client) statusError(resp *http.Response) error {
	se := &StatusError{Status: resp.StatusCode, Detail: "Server error"}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		var body detailBody
		if json.Unmarshal(raw, &body) == nil && body.Detail != "" {
			se.Detail = body.Detail
		}
	}
	c.logger.Debug("backend error", "status", se.Status, "detail", se.Detail)
	return se
}

// ConnectionError means the request never produced an HTTP response: the
// backend is unreachable, the connection dropped, or the context expired.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "connection failed: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err stems from a failed connection
// rather than a backend-issued response.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return eris.As(err, &ce)
}
