// Package apiclient wraps HTTP access to the upstream Taita CMS API. It
// injects the session's bearer token on every request and runs a response
// interceptor: any 401/403 from the upstream triggers the configured
// auth-reject hook, which the application wires to clear persisted auth
// state. No retries are performed; a failed call is definitive for the
// current navigation.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrAuthRejected is returned when the upstream responds 401 or 403.
var ErrAuthRejected = errors.New("upstream rejected authorization")

// APIError carries a non-2xx upstream response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream API error: status %d", e.Status)
}

// AuthRejectHook is invoked when the upstream reports 401/403. It receives
// the request context so it can reach the session being served.
type AuthRejectHook func(ctx context.Context)

// Client is the upstream API client.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	logger       *zap.Logger
	onAuthReject AuthRejectHook
}

// New creates a client for the given base URL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// OnAuthReject installs the interceptor hook run on upstream 401/403
// responses. Must be set during wiring, before the client is shared.
func (c *Client) OnAuthReject(hook AuthRejectHook) {
	c.onAuthReject = hook
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON performs a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path, token string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

// PostJSON performs a POST request with a JSON body and decodes the JSON
// response into out.
func (c *Client) PostJSON(ctx context.Context, path, token string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, token, body, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.logger.Warn("upstream rejected authorization",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		if c.onAuthReject != nil {
			c.onAuthReject(ctx)
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrAuthRejected)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
