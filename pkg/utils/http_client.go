package utils

import (
	"net"
	"net/http"
	"net/url"
	"time"
)

// defaults sized for a single upstream API (Konduto) called synchronously per order.
const (
	defaultClientTimeout         = 10 * time.Second // Konduto recommends waiting up to 10s for an analysis
	defaultResponseHeaderTimeout = 8 * time.Second
	defaultIdleConnTimeout       = 90 * time.Second
	defaultTLSHandshakeTimeout   = 5 * time.Second

	defaultMaxConnsPerHost     = 64
	defaultMaxIdleConnsPerHost = 32

	defaultDialerTimeout   = 2 * time.Second
	defaultDialerKeepAlive = 30 * time.Second
)

// ClientConfig captures tunable for the HTTP client/transport.
// All fields are optional. zero-values will be replaced by defaults.
type ClientConfig struct {
	// Client-level deadline (caps total request time).
	ClientTimeout time.Duration

	// Transport timeouts.
	ResponseHeaderTimeout time.Duration
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration

	// Transport pool sizing.
	MaxConnsPerHost     int
	MaxIdleConnsPerHost int

	// Dialer options.
	DialerTimeout   time.Duration
	DialerKeepAlive time.Duration

	Proxy func(*http.Request) (*url.URL, error) // default http.ProxyFromEnvironment
}

// ClientOption ----- Functional options pattern -----
type ClientOption func(*ClientConfig)

func WithClientTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.ClientTimeout = d }
}
func WithResponseHeaderTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.ResponseHeaderTimeout = d }
}
func WithMaxConnsPerHost(n int) ClientOption { return func(c *ClientConfig) { c.MaxConnsPerHost = n } }
func WithProxy(p func(*http.Request) (*url.URL, error)) ClientOption {
	return func(c *ClientConfig) { c.Proxy = p }
}

// DefaultClientConfig returns a copy of the library defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ClientTimeout:         defaultClientTimeout,
		ResponseHeaderTimeout: defaultResponseHeaderTimeout,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		MaxConnsPerHost:       defaultMaxConnsPerHost,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		DialerTimeout:         defaultDialerTimeout,
		DialerKeepAlive:       defaultDialerKeepAlive,
		Proxy:                 http.ProxyFromEnvironment,
	}
}

// NewHTTPClient builds an *http.Client with safe defaults overridden by opts.
// All zero/empty values are filled with defaults to avoid accidental infinite hangs.
func NewHTTPClient(opts ...ClientOption) *http.Client {
	cfg := DefaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	sanitizeClientConfig(&cfg)

	tr := &http.Transport{
		Proxy: cfg.Proxy,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialerTimeout,
			KeepAlive: cfg.DialerKeepAlive,
		}).DialContext,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.ClientTimeout,
	}
}

// sanitizeClientConfig replaces non-positive values with defaults.
func sanitizeClientConfig(c *ClientConfig) {
	if c.ClientTimeout <= 0 {
		c.ClientTimeout = defaultClientTimeout
	}
	if c.ResponseHeaderTimeout <= 0 || c.ResponseHeaderTimeout > c.ClientTimeout {
		c.ResponseHeaderTimeout = min(defaultResponseHeaderTimeout, c.ClientTimeout)
	}
	if c.IdleConnTimeout <= 0 {
		c.IdleConnTimeout = defaultIdleConnTimeout
	}
	if c.TLSHandshakeTimeout <= 0 {
		c.TLSHandshakeTimeout = defaultTLSHandshakeTimeout
	}
	if c.DialerTimeout <= 0 {
		c.DialerTimeout = defaultDialerTimeout
	}
	if c.DialerKeepAlive <= 0 {
		c.DialerKeepAlive = defaultDialerKeepAlive
	}
	if c.MaxConnsPerHost <= 0 {
		c.MaxConnsPerHost = defaultMaxConnsPerHost
	}
	if c.MaxIdleConnsPerHost <= 0 || c.MaxIdleConnsPerHost > c.MaxConnsPerHost {
		c.MaxIdleConnsPerHost = min(defaultMaxIdleConnsPerHost, c.MaxConnsPerHost)
	}
	if c.Proxy == nil {
		c.Proxy = http.ProxyFromEnvironment
	}
}
