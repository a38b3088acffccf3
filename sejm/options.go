package sejm

import (
	"net/http"
	"time"
)

// DefaultUserAgent identifies the scraper to the Sejm API.
const DefaultUserAgent = "SejmBotScraper/1.0 (Educational Purpose)"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout      time.Duration
	requestDelay time.Duration
	maxRetries   int
	userAgent    string
	httpClient   *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:      30 * time.Second,
		requestDelay: time.Second,
		userAgent:    DefaultUserAgent,
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithRequestDelay sets the fixed pause taken before every request.
func WithRequestDelay(delay time.Duration) Option {
	return func(o *clientOptions) {
		if delay >= 0 {
			o.requestDelay = delay
		}
	}
}

// WithMaxRetries records the configured retry count. The client does not
// retry; the value is only reported back through MaxRetries.
func WithMaxRetries(retries int) Option {
	return func(o *clientOptions) {
		if retries >= 0 {
			o.maxRetries = retries
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. The timeout option is
// ignored when a custom client is supplied.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}
