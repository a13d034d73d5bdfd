// Package serp queries a search results provider for organic rankings and
// result-page features. Provider calls are serialized with a fixed spacing
// and answered from a TTL cache when the same query repeats within a scan.
package serp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theopenlane/httpsling"

	"github.com/jerilmartin/rankprobe/internal/types"
)

const (
	// defaultBaseURL is the search provider endpoint
	defaultBaseURL = "https://serpapi.com/search.json"
	// defaultTimeout bounds a single provider request
	defaultTimeout = 15 * time.Second
	// defaultInterval spaces consecutive provider calls
	defaultInterval = time.Second
	// defaultCacheTTL bounds reuse of a cached result page
	defaultCacheTTL = 15 * time.Minute
	// resultCount is the number of organic results requested per query
	resultCount = 100
)

// Devices accepted on a Query.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
)

// Query identifies one result page: a keyword with optional location and device.
type Query struct {
	// Keyword is the search phrase
	Keyword string
	// Location is a two-letter country code; empty uses the provider default
	Location string
	// Device is desktop or mobile; empty means desktop
	Device string
}

// key builds the cache key for the query. An explicit desktop device collapses
// to the provider default so device comparisons reuse the plain lookup.
func (q Query) key() string {
	device := strings.ToLower(q.Device)
	if device == DeviceDesktop {
		device = ""
	}

	return strings.ToLower(strings.TrimSpace(q.Keyword)) + "|" + strings.ToLower(q.Location) + "|" + device
}

// Result is one organic search result.
type Result struct {
	// Position is the 1-based organic rank
	Position int `json:"position"`
	// Title is the result title
	Title string `json:"title"`
	// Link is the full result URL
	Link string `json:"link"`
	// Domain is the result host without a www prefix
	Domain string `json:"domain"`
	// Snippet is the result description text
	Snippet string `json:"snippet"`
}

// Response is one parsed result page. Responses are shared through the cache
// and must be treated as read-only.
type Response struct {
	// Keyword is the phrase that was queried
	Keyword string
	// Organic lists the organic results in rank order
	Organic []Result
	// PeopleAlsoAsk lists the People-Also-Ask questions
	PeopleAlsoAsk []string
	// RelatedSearches lists the related search phrases
	RelatedSearches []string
	// Features summarizes the result-page features
	Features types.SERPFeatureSummary
}

// Client is a search results provider client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *limiter
	cache      *responseCache
}

// Option configures the Client
type Option func(*Client)

// WithBaseURL overrides the provider endpoint
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithHTTPClient overrides the HTTP client used for provider requests
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithInterval overrides the spacing between consecutive provider calls
func WithInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.limiter.interval = interval
		}
	}
}

// WithCacheTTL overrides how long cached result pages are reused
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.cache.ttl = ttl
		}
	}
}

// New creates a search client. The API key is required.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    newLimiter(defaultInterval),
		cache:      newResponseCache(defaultCacheTTL),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// apiResponse is the slice of the provider payload we consume
type apiResponse struct {
	SearchInformation struct {
		TotalResults int64 `json:"total_results"`
	} `json:"search_information"`
	OrganicResults []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
	} `json:"organic_results"`
	AnswerBox      map[string]any `json:"answer_box"`
	KnowledgeGraph map[string]any `json:"knowledge_graph"`
	LocalResults   struct {
		Places []map[string]any `json:"places"`
	} `json:"local_results"`
	ShoppingResults  []map[string]any `json:"shopping_results"`
	InlineImages     []map[string]any `json:"inline_images"`
	InlineVideos     []map[string]any `json:"inline_videos"`
	RelatedQuestions []struct {
		Question string `json:"question"`
	} `json:"related_questions"`
	RelatedSearches []struct {
		Query string `json:"query"`
	} `json:"related_searches"`
	Error string `json:"error"`
}

// Search returns the result page for a query. Repeated queries inside the
// cache TTL are answered without spending provider quota.
func (c *Client) Search(ctx context.Context, q Query) (*Response, error) {
	if strings.TrimSpace(q.Keyword) == "" {
		return nil, ErrEmptyKeyword
	}

	key := q.key()
	if entry, ok := c.cache.get(key); ok {
		return entry.resp, entry.err
	}

	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.search(ctx, q)
	c.cache.put(key, resp, err)

	return resp, err
}

// search performs the provider request outside the cache
func (c *Client) search(ctx context.Context, q Query) (*Response, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", q.Keyword)
	params.Set("api_key", c.apiKey)
	params.Set("num", fmt.Sprintf("%d", resultCount))

	if q.Location != "" {
		params.Set("gl", strings.ToLower(q.Location))
	}

	if q.Device != "" {
		params.Set("device", strings.ToLower(q.Device))
	}

	requester := httpsling.MustNew(
		httpsling.URL(c.baseURL+"?"+params.Encode()),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var out apiResponse

	resp, err := requester.ReceiveWithContext(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderError, out.Error)
	}

	return buildResponse(q.Keyword, &out), nil
}

// buildResponse maps the provider payload onto the package result shape
func buildResponse(keyword string, out *apiResponse) *Response {
	resp := &Response{Keyword: keyword}

	for _, r := range out.OrganicResults {
		resp.Organic = append(resp.Organic, Result{
			Position: r.Position,
			Title:    r.Title,
			Link:     r.Link,
			Domain:   hostOf(r.Link),
			Snippet:  r.Snippet,
		})
	}

	for _, q := range out.RelatedQuestions {
		if q.Question != "" {
			resp.PeopleAlsoAsk = append(resp.PeopleAlsoAsk, q.Question)
		}
	}

	for _, r := range out.RelatedSearches {
		if r.Query != "" {
			resp.RelatedSearches = append(resp.RelatedSearches, r.Query)
		}
	}

	resp.Features = types.SERPFeatureSummary{
		TotalResults:    out.SearchInformation.TotalResults,
		FeaturedSnippet: len(out.AnswerBox) > 0,
		KnowledgePanel:  len(out.KnowledgeGraph) > 0,
		LocalPack:       len(out.LocalResults.Places) > 0,
		Shopping:        len(out.ShoppingResults) > 0,
		ImagePack:       len(out.InlineImages) > 0,
		VideoResults:    len(out.InlineVideos) > 0,
		PeopleAlsoAsk:   len(resp.PeopleAlsoAsk),
		RelatedSearches: len(resp.RelatedSearches),
	}

	return resp
}

// hostOf extracts the lowercased host of a result link without a www prefix
func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}

	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
