package technical

import (
	"net/http"
	"strings"
	"time"
)

const (
	// defaultTimeout bounds each HTTP probe
	defaultTimeout = 10 * time.Second
	// defaultDNSTimeout bounds each DNS query
	defaultDNSTimeout = 5 * time.Second
	// defaultDNSServer is the resolver used when none is configured
	defaultDNSServer = "8.8.8.8:53"
	// defaultUserAgent is sent on outgoing probes
	defaultUserAgent = "Mozilla/5.0 (compatible; rankprobe/1.0)"
)

// CheckerOption configures the Checker
type CheckerOption func(*Checker)

// WithHTTPClient overrides the HTTP client used for probes
func WithHTTPClient(client *http.Client) CheckerOption {
	return func(c *Checker) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout overrides the per-probe timeout for HTTP and DNS alike
func WithTimeout(timeout time.Duration) CheckerOption {
	return func(c *Checker) {
		if timeout > 0 {
			c.client.Timeout = timeout
			c.dnsClient.Timeout = timeout
		}
	}
}

// WithDNSServer overrides the DNS resolver used for record context
func WithDNSServer(server string) CheckerOption {
	return func(c *Checker) {
		if server != "" {
			c.dnsServer = server
		}
	}
}

// WithDNSLookups toggles DNS record gathering
func WithDNSLookups(enabled bool) CheckerOption {
	return func(c *Checker) {
		c.dnsEnabled = enabled
	}
}

// WithUserAgent overrides the user agent sent on probes
func WithUserAgent(userAgent string) CheckerOption {
	return func(c *Checker) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithBaseURL overrides the probed site root, useful against test servers
func WithBaseURL(baseURL string) CheckerOption {
	return func(c *Checker) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}
