// internal/common/http/client.go
package http

import (
	"net/http"
	"time"
)

// Client is a thin wrapper over *http.Client that stamps a fixed set of
// headers on every outgoing request.
type Client struct {
	httpClient *http.Client
	headers    http.Header
}

type Option func(*Client)

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithBearerToken sets the Authorization header to "Bearer <token>".
func WithBearerToken(token string) Option {
	return WithHeader("Authorization", "Bearer "+token)
}

// NewClient builds a Client. A zero timeout leaves requests bounded only by
// the transport defaults.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	for key, values := range c.headers {
		if req.Header.Get(key) != "" {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return c.httpClient.Do(req)
}
