package fetcher

import (
	"net/http"
	"time"
)

const (
	// defaultTimeout bounds the plain HTTP retrieval
	defaultTimeout = 20 * time.Second
	// defaultRenderTimeout bounds a headless browser render
	defaultRenderTimeout = 25 * time.Second
	// defaultMinTextChars is the visible-text length below which a render
	// fallback is attempted
	defaultMinTextChars = 200
	// defaultUserAgent identifies the fetcher to target sites
	defaultUserAgent = "Mozilla/5.0 (compatible; rankprobe/1.0; +https://github.com/jerilmartin/rankprobe)"
)

// Option configures the Fetcher
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client used for plain retrieval
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout overrides the plain retrieval timeout
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.client.Timeout = timeout
		}
	}
}

// WithUserAgent overrides the User-Agent header sent to target sites
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithRender enables or disables the headless browser fallback
func WithRender(enabled bool) Option {
	return func(f *Fetcher) {
		f.renderEnabled = enabled
	}
}

// WithRenderTimeout overrides the per-render timeout
func WithRenderTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.renderTimeout = timeout
		}
	}
}

// WithMinTextChars overrides the visible-text threshold that triggers a render
func WithMinTextChars(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.minTextChars = n
		}
	}
}
