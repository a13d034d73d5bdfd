// Package entity verifies brand recognition through the Knowledge Graph and
// weighs page content entities by salience through the Natural Language API.
package entity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/theopenlane/httpsling"

	"github.com/jerilmartin/rankprobe/internal/types"
)

const (
	// defaultKGBaseURL is the Knowledge Graph entity search endpoint
	defaultKGBaseURL = "https://kgsearch.googleapis.com/v1/entities:search"
	// defaultNLBaseURL is the Natural Language entity analysis endpoint
	defaultNLBaseURL = "https://language.googleapis.com/v1/documents:analyzeEntities"
	// defaultRequestTimeout bounds a single provider request
	defaultRequestTimeout = 15 * time.Second

	// kgResultLimit caps knowledge graph candidates fetched per query
	kgResultLimit = 5
	// maxContentChars caps text sent for salience analysis
	maxContentChars = 10000
	// minContentChars is the text length below which salience is skipped
	minContentChars = 50
	// maxSalientEntities caps entities kept from the analysis
	maxSalientEntities = 10
)

// Client calls the Knowledge Graph and Natural Language APIs
type Client struct {
	apiKey     string
	httpClient *http.Client
	kgBaseURL  string
	nlBaseURL  string
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for provider requests
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithKGBaseURL overrides the Knowledge Graph endpoint
func WithKGBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.kgBaseURL = url
		}
	}
}

// WithNLBaseURL overrides the Natural Language endpoint
func WithNLBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.nlBaseURL = url
		}
	}
}

// New creates an entity client with the provided API key
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		kgBaseURL:  defaultKGBaseURL,
		nlBaseURL:  defaultNLBaseURL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// kgResponse is the Knowledge Graph search envelope
type kgResponse struct {
	ItemListElement []struct {
		Result struct {
			Name                string   `json:"name"`
			Types               []string `json:"@type"`
			Description         string   `json:"description"`
			DetailedDescription struct {
				ArticleBody string `json:"articleBody"`
			} `json:"detailedDescription"`
		} `json:"result"`
		ResultScore float64 `json:"resultScore"`
	} `json:"itemListElement"`
}

// Verify checks whether the brand maps to a recognized knowledge graph
// entity. An unrecognized brand is a normal outcome, not an error.
func (c *Client) Verify(ctx context.Context, brand string) (*types.EntityVerification, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, ErrEmptyQuery
	}

	query := url.Values{}
	query.Set("query", brand)
	query.Set("key", c.apiKey)
	query.Set("limit", fmt.Sprintf("%d", kgResultLimit))

	requester := httpsling.MustNew(
		httpsling.URL(c.kgBaseURL+"?"+query.Encode()),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var out kgResponse

	resp, err := requester.ReceiveWithContext(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	token := normalizeToken(brand)

	for _, item := range out.ItemListElement {
		name := normalizeToken(item.Result.Name)
		if name == "" || (name != token && !strings.Contains(name, token) && !strings.Contains(token, name)) {
			continue
		}

		description := item.Result.DetailedDescription.ArticleBody
		if description == "" {
			description = item.Result.Description
		}

		return &types.EntityVerification{
			Recognized:  true,
			Name:        item.Result.Name,
			Types:       item.Result.Types,
			Score:       item.ResultScore,
			Description: description,
		}, nil
	}

	return &types.EntityVerification{Recognized: false}, nil
}

// nlRequest is the Natural Language analyzeEntities request body
type nlRequest struct {
	Document     nlDocument `json:"document"`
	EncodingType string     `json:"encodingType"`
}

// nlDocument carries the text under analysis
type nlDocument struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// nlResponse is the Natural Language analyzeEntities envelope
type nlResponse struct {
	Entities []struct {
		Name     string  `json:"name"`
		Salience float64 `json:"salience"`
	} `json:"entities"`
}

// AnalyzeSalience extracts the most salient entities from page text. Text is
// truncated before submission and very thin content is skipped entirely.
func (c *Client) AnalyzeSalience(ctx context.Context, text string) ([]types.SalientEntity, error) {
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) < minContentChars {
		return nil, nil
	}

	if len(runes) > maxContentChars {
		text = string(runes[:maxContentChars])
	}

	body := nlRequest{
		Document:     nlDocument{Type: "PLAIN_TEXT", Content: text},
		EncodingType: "UTF8",
	}

	requester := httpsling.MustNew(
		httpsling.URL(c.nlBaseURL+"?key="+url.QueryEscape(c.apiKey)),
		httpsling.Post(),
		httpsling.JSONBody(body),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var out nlResponse

	resp, err := requester.ReceiveWithContext(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	entities := make([]types.SalientEntity, 0, len(out.Entities))
	for _, e := range out.Entities {
		entities = append(entities, types.SalientEntity{Entity: e.Name, Weight: e.Salience})
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Weight > entities[j].Weight
	})

	if len(entities) > maxSalientEntities {
		entities = entities[:maxSalientEntities]
	}

	return entities, nil
}

// normalizeToken lowercases and strips separators so brand names compare
// loosely
func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")

	return s
}
