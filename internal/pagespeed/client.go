// Package pagespeed runs performance audits through the PageSpeed Insights
// API and extracts the Lighthouse metrics the health score depends on.
package pagespeed

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/theopenlane/httpsling"

	"github.com/jerilmartin/rankprobe/internal/types"
)

const (
	// defaultBaseURL is the PageSpeed Insights runPagespeed endpoint
	defaultBaseURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"
	// defaultRequestTimeout is generous because a cold audit regularly takes
	// 30-50 seconds on heavy pages
	defaultRequestTimeout = 90 * time.Second
)

// Audit strategies accepted by the API.
const (
	StrategyMobile  = "mobile"
	StrategyDesktop = "desktop"
)

// Lighthouse audit identifiers extracted from the response.
const (
	auditLCP      = "largest-contentful-paint"
	auditCLS      = "cumulative-layout-shift"
	auditFCP      = "first-contentful-paint"
	auditViewport = "viewport"
)

// Client calls the PageSpeed Insights API
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for audit requests
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default PageSpeed Insights endpoint
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// New creates a PageSpeed Insights client with the provided API key
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		baseURL:    defaultBaseURL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// auditResponse is the slice of the PageSpeed Insights response we consume
type auditResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance   category `json:"performance"`
			Accessibility category `json:"accessibility"`
			SEO           category `json:"seo"`
		} `json:"categories"`
		Audits map[string]audit `json:"audits"`
	} `json:"lighthouseResult"`
	Error *apiError `json:"error,omitempty"`
}

// category holds a 0-1 Lighthouse category score
type category struct {
	Score *float64 `json:"score"`
}

// audit holds a single Lighthouse audit outcome
type audit struct {
	Score        *float64 `json:"score"`
	NumericValue float64  `json:"numericValue"`
}

// apiError is the error envelope returned by the API
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Audit runs a mobile performance audit for the target URL, falling back to
// the desktop profile when the mobile audit fails. The returned metrics
// record which strategy produced them.
func (c *Client) Audit(ctx context.Context, target string) (*types.LighthouseMetrics, error) {
	metrics, mobileErr := c.audit(ctx, target, StrategyMobile)
	if mobileErr == nil {
		return metrics, nil
	}

	metrics, desktopErr := c.audit(ctx, target, StrategyDesktop)
	if desktopErr != nil {
		return nil, fmt.Errorf("%w: mobile: %v, desktop: %v", ErrAuditUnavailable, mobileErr, desktopErr)
	}

	return metrics, nil
}

// audit runs a single audit with the given strategy
func (c *Client) audit(ctx context.Context, target, strategy string) (*types.LighthouseMetrics, error) {
	query := url.Values{}
	query.Set("url", target)
	query.Set("strategy", strategy)
	query.Set("key", c.apiKey)
	query.Add("category", "performance")
	query.Add("category", "accessibility")
	query.Add("category", "seo")

	requester := httpsling.MustNew(
		httpsling.URL(c.baseURL+"?"+query.Encode()),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var out auditResponse

	resp, err := requester.ReceiveWithContext(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if out.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrAuditFailed, out.Error.Message)
	}

	return extractMetrics(&out, strategy), nil
}

// extractMetrics maps the raw response onto the metrics the scorer consumes
func extractMetrics(out *auditResponse, strategy string) *types.LighthouseMetrics {
	lr := out.LighthouseResult

	metrics := &types.LighthouseMetrics{
		Available:     true,
		Strategy:      strategy,
		Performance:   scoreOf(lr.Categories.Performance),
		Accessibility: scoreOf(lr.Categories.Accessibility),
		SEO:           scoreOf(lr.Categories.SEO),
	}

	if a, ok := lr.Audits[auditLCP]; ok {
		metrics.LCPMillis = a.NumericValue
	}

	if a, ok := lr.Audits[auditCLS]; ok {
		metrics.CLS = a.NumericValue
	}

	if a, ok := lr.Audits[auditFCP]; ok {
		metrics.FCPMillis = a.NumericValue
	}

	if a, ok := lr.Audits[auditViewport]; ok && a.Score != nil {
		metrics.ViewportOK = *a.Score == 1
	}

	return metrics
}

// scoreOf converts a 0-1 category score into the 0-100 scale
func scoreOf(c category) int {
	if c.Score == nil {
		return 0
	}

	return int(math.Round(*c.Score * 100))
}
