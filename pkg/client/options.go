package client

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// RequestEditorFn changes a request before it is sent.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// ClientOption ----- Functional options pattern -----
type ClientOption func(*Client)

// WithHTTPClient replaces the default client built by utils.NewHTTPClient.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func WithCache(cache Cache) ClientOption {
	return func(c *Client) { c.cache = cache }
}

func WithLimiter(limiter Limiter) ClientOption {
	return func(c *Client) { c.limiter = limiter }
}

func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *Client) { c.editors = append(c.editors, fn) }
}

// WithBasicAuth authenticates with the merchant's private API key. Konduto expects the key
// as the user name and an empty password.
func WithBasicAuth(apiKey string) ClientOption {
	return WithRequestEditorFn(func(_ context.Context, req *http.Request) error {
		req.SetBasicAuth(apiKey, "")
		return nil
	})
}
