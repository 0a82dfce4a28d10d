// Package client provides an HTTP client for the webOS remote gateway API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Client provides methods for interacting with the gateway API
type Client struct {
	// baseURL is the root URL for all API requests
	baseURL string
	// httpClient is the underlying HTTP client
	httpClient *http.Client
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTimeout bounds every request. Combos with long delays need a generous value.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new API client
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	// Validate and normalize base URL
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	u.Path = ""

	// Create client with defaults
	c := &Client{
		baseURL: u.String(),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	// Apply options
	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// do performs an API request and decodes a successful JSON response into target
func (c *Client) do(ctx context.Context, method, pathStr string, body, target interface{}) error {
	// Build full URL
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path.Join("/api", pathStr)

	// Create request body if needed
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, target)
}
