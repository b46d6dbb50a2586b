// Package client is a Go client for the portfolio JSON API. GET responses are
// cached by endpoint path; every mutation drops exactly the cached paths its
// result can change (see Invalidations).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

// FieldError names one invalid payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
	Errors  []FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portfolio api: status %d", e.Status)
	}
	return fmt.Sprintf("portfolio api: status %d: %s", e.Status, e.Message)
}

// Client talks to one portfolio server. It keeps the session cookie in a
// cookie jar, so a Client represents a single browser-like session.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	cache map[string][]byte
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Jar is set when nil.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}
	return c, nil
}

// Cached reports whether a response for path is cached.
func (c *Client) Cached(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.cache[path]
	return ok
}

// Invalidate drops the cached responses for paths.
func (c *Client) Invalidate(paths ...string) {
	c.mu.Lock()
	for _, p := range paths {
		delete(c.cache, p)
	}
	c.mu.Unlock()
}

// InvalidateAll empties the cache.
func (c *Client) InvalidateAll() {
	c.mu.Lock()
	c.cache = make(map[string][]byte)
	c.mu.Unlock()
}

// get serves path from the cache or fetches and caches it.
func (c *Client) get(ctx context.Context, path string, out any) error {
	c.mu.Lock()
	data, ok := c.cache[path]
	c.mu.Unlock()
	if !ok {
		var err error
		data, err = c.send(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.cache[path] = data
		c.mu.Unlock()
	}
	return decode(data, out)
}

// mutate sends a write and, only when it succeeds, invalidates paths.
func (c *Client) mutate(ctx context.Context, method, path string, body, out any, invalidate []string) error {
	data, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	c.Invalidate(invalidate...)
	return decode(data, out)
}

func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Message string       `json:"message"`
			Errors  []FieldError `json:"errors"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Message
			apiErr.Errors = payload.Errors
		}
		return nil, apiErr
	}
	return data, nil
}

func decode(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Ptr returns a pointer to v, for building partial updates.
func Ptr[T any](v T) *T {
	return &v
}
