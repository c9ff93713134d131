// Package remote talks to the authoritative session API and repopulates
// the local cache from its responses.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/hashicorp/go-retryablehttp"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 16 << 20

// Client fetches session lists and message histories over HTTP
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithToken sends a bearer token with every request
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the retrying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid remote url %q: %w", baseURL, err)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: retryClient.StandardClient(),
	}
	c.httpClient.Timeout = 30 * time.Second
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListSessions fetches the session summaries
func (c *Client) ListSessions(ctx context.Context) ([]internal.SessionMetadata, error) {
	body, err := c.get(ctx, "/sessions")
	if err != nil {
		return nil, err
	}
	return internal.NormalizeSessionList(body)
}

// GetMessages fetches the message history of one session
func (c *Client) GetMessages(ctx context.Context, sessionID string) ([]internal.Message, error) {
	if sessionID == "" {
		return nil, internal.ErrMissingSessionID
	}
	body, err := c.get(ctx, "/sessions/"+url.PathEscape(sessionID)+"/messages")
	if err != nil {
		return nil, err
	}
	return internal.NormalizeMessages(body)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response for %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// StatusError reports a non-200 response
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote %s: HTTP %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("remote %s: HTTP %d: %s", e.Path, e.StatusCode, e.Body)
}
