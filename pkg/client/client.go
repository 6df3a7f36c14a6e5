// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package client provides a Go client library for the Loupe API.
//
// Loupe is a local investigation tool for JSON, log, and CSV files. This
// client library provides typed access to the Loupe API endpoints: filter
// query compilation, document filtering, JSON path resolution and location,
// and multi-tab regex search.
//
// # Getting Started
//
// Create a client pointing to your Loupe server:
//
//	c := client.New("http://localhost:7870")
//
// The client provides access to different API resources through sub-clients:
//
//	// Compile a filter query
//	result, err := c.Query.Compile(ctx, "severity:error OR severity:critical")
//
//	// Filter a log file
//	res, err := c.Query.FilterFile(ctx, "/var/log/app.log", "severity:error")
//
//	// Locate a JSON path in raw text
//	sel, err := c.Paths.Locate(ctx, content, "nodes[1].status")
//
// # API Versioning
//
// Loupe uses date-based API versioning. By default, the client uses the
// latest API version. You can pin to a specific version for stability:
//
//	c := client.New("http://localhost:7870", client.WithVersion("2026-08-30"))
//
// The version is sent via the Loupe-Version HTTP header on each request.
//
// # Error Handling
//
// API errors are returned as *APIError values, which include an error code
// and message:
//
//	snap, err := c.Documents.Open(ctx, "/missing/file.log")
//	if err != nil {
//	    if apiErr, ok := err.(*client.APIError); ok {
//	        fmt.Printf("API error: %s - %s\n", apiErr.Code, apiErr.Message)
//	    }
//	}
//
// # Context Support
//
// All API methods accept a context.Context for cancellation and timeouts.
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
)

// Client is a Loupe API client.
//
// A Client provides access to the Loupe API through resource-specific
// sub-clients. Use [New] to create a Client instance.
//
// The Client is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client

	// Query provides access to filter query compilation and filtering.
	Query *QueryClient

	// Paths provides access to JSON path resolution and location.
	Paths *PathClient

	// Search provides access to multi-tab regex search.
	Search *SearchClient

	// Documents provides access to file snapshots and tree listings.
	Documents *DocumentClient

	// System provides access to version and health endpoints.
	System *SystemClient
}

// Option configures a [Client]. Options are passed to [New] to customize
// client behavior.
type Option func(*Client)

// New creates a new Loupe API client with the given base URL and options.
//
// The baseURL should be the root URL of the Loupe server (e.g.,
// "http://localhost:7870"). Any trailing slash is automatically removed.
//
// By default, the client uses:
//   - The latest API version ([LatestVersion])
//   - A 30-second HTTP timeout
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		version: LatestVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Query = &QueryClient{c: c}
	c.Paths = &PathClient{c: c}
	c.Search = &SearchClient{c: c}
	c.Documents = &DocumentClient{c: c}
	c.System = &SystemClient{c: c}

	return c
}

// WithVersion sets the API version to use for all requests.
//
// Loupe uses date-based versioning (e.g., "2026-08-30"). Pinning to a
// specific version ensures API compatibility as the server evolves.
func WithVersion(v string) Option {
	return func(c *Client) {
		c.version = v
	}
}

// WithHTTPClient sets a custom HTTP client for making requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout for all requests.
//
// The default timeout is 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// Version returns the API version being used.
func (c *Client) Version() string {
	return c.version
}

// BaseURL returns the base URL of the API.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiResponse is the standard API response envelope.
type apiResponse struct {
	Data  json.RawMessage `json:"data"`
	Error *APIError       `json:"error"`
}

// APIError represents an error response from the Loupe API.
//
// Common error codes include:
//   - "NOT_FOUND": The requested resource does not exist
//   - "BAD_REQUEST": The request was malformed or invalid
//   - "PATTERN_REJECTED": The regex pattern failed the safety gate
//   - "SUPERSEDED": The request was replaced by a newer one
//   - "INTERNAL_ERROR": An unexpected server error occurred
type APIError struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable description of the error.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// get performs a GET request to the given path.
func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// postJSON performs a POST request with a JSON body.
func (c *Client) postJSON(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data))
}

// do performs an HTTP request and parses the response.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (json.RawMessage, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(VersionHeader, c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return c.parseResponse(resp)
}

// parseResponse reads and parses an API response.
func (c *Client) parseResponse(resp *http.Response) (json.RawMessage, error) {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
		}
		// Return raw body for non-envelope responses
		return respBody, nil
	}

	if apiResp.Error != nil {
		return nil, apiResp.Error
	}

	return apiResp.Data, nil
}
