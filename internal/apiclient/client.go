// Package apiclient is the outbound HTTP client for the blog backend.
//
// Every request passes through an ordered chain of request interceptors
// before it is sent and response interceptors once a response arrives.
// Per-request behavior (the caller's credential, their 401 handler) is bound
// with With, which returns a copy sharing the underlying *http.Client.
package apiclient

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

// DefaultMePath is the identity lookup endpoint
const DefaultMePath = "/api/auth/me"

// RequestInterceptor may modify or reject a request before it is sent
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor observes a response before it is decoded.
// Returning an error replaces the call's result with that error.
type ResponseInterceptor func(resp *http.Response) error

// Client is an HTTP client for the blog API
type Client struct {
	baseURL    string
	mePath     string
	httpClient *http.Client

	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMePath overrides the identity lookup path
func WithMePath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.mePath = path
		}
	}
}

// WithRequestInterceptors appends to the request chain
func WithRequestInterceptors(fns ...RequestInterceptor) Option {
	return func(c *Client) {
		c.requestInterceptors = append(c.requestInterceptors, fns...)
	}
}

// WithResponseInterceptors appends to the response chain
func WithResponseInterceptors(fns ...ResponseInterceptor) Option {
	return func(c *Client) {
		c.responseInterceptors = append(c.responseInterceptors, fns...)
	}
}

// New creates a new API client
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		mePath:  DefaultMePath,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// With returns a copy of c with opts applied. c itself is unchanged.
func (c *Client) With(opts ...Option) *Client {
	cp := *c
	cp.requestInterceptors = append([]RequestInterceptor(nil), c.requestInterceptors...)
	cp.responseInterceptors = append([]ResponseInterceptor(nil), c.responseInterceptors...)
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// BaseURL returns the backend root URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CallOption adjusts a single call
type CallOption func(*callConfig)

type callConfig struct {
	anonymous bool
}

// Anonymous sends the call without the stored credential
func Anonymous() CallOption {
	return func(cc *callConfig) {
		cc.anonymous = true
	}
}

type anonymousKey struct{}

// IsAnonymous reports whether req was marked with Anonymous
func IsAnonymous(req *http.Request) bool {
	v, _ := req.Context().Value(anonymousKey{}).(bool)
	return v
}

// Do performs a request against path and decodes a JSON response into result
func (c *Client) Do(ctx context.Context, method, path string, body, result any, opts ...CallOption) error {
	var cc callConfig
	for _, opt := range opts {
		opt(&cc)
	}
	if cc.anonymous {
		ctx = context.WithValue(ctx, anonymousKey{}, true)
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	for _, intercept := range c.requestInterceptors {
		if err := intercept(req); err != nil {
			return err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	resp.Body = io.NopCloser(bytes.NewReader(respBody))

	for _, intercept := range c.responseInterceptors {
		if err := intercept(resp); err != nil {
			return err
		}
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, result any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, result, opts...)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body, result any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodPost, path, body, result, opts...)
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, path string, body, result any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodPut, path, body, result, opts...)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, opts ...CallOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, opts...)
}
