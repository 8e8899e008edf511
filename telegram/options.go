package telegram

import (
	"net/http"
	"time"

	"github.com/noon-labs/namecycler/common"
)

const (
	DefaultBaseURL     = "https://api.telegram.org"
	DefaultPollTimeout = 30 * time.Second
	pollRequestSlack   = 10 * time.Second
)

type clientConfig struct {
	baseURL     string
	httpClient  *http.Client
	rawClient   *http.Client
	pollTimeout time.Duration
	logger      common.Logger
}

type Option func(*clientConfig)

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		baseURL:     DefaultBaseURL,
		pollTimeout: DefaultPollTimeout,
		logger:      common.NopLogger(),
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient replaces the client used for structured calls and polling.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRawHTTPClient replaces the client used by the fallback rename path.
func WithRawHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		if hc != nil {
			c.rawClient = hc
		}
	}
}

func WithPollTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.pollTimeout = d
		}
	}
}

func WithLogger(logger common.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// newHTTPClient builds a client without an overall timeout; callers bound
// requests through their context.
func newHTTPClient(maxIdle int) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        maxIdle,
			MaxIdleConnsPerHost: maxIdle,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}
