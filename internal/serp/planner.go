package serp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// defaultTokenURL is the OAuth token refresh endpoint
	defaultTokenURL = "https://oauth2.googleapis.com/token"
	// defaultIdeasBaseURL is the keyword planner API root
	defaultIdeasBaseURL = "https://googleads.googleapis.com/v17"
	// plannerTimeout bounds each planner request
	plannerTimeout = 15 * time.Second
)

// Planner expands seed keywords through a keyword-planner API. It refreshes
// an OAuth access token per call and queries the idea generation endpoint.
type Planner struct {
	clientID       string
	clientSecret   string
	refreshToken   string
	developerToken string
	customerID     string
	tokenURL       string
	ideasBaseURL   string
	httpClient     *http.Client
}

// PlannerCredentials carries the account settings the planner API requires.
type PlannerCredentials struct {
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	DeveloperToken string
	CustomerID     string
}

// complete reports whether every credential field is set
func (c PlannerCredentials) complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != "" &&
		c.DeveloperToken != "" && c.CustomerID != ""
}

// PlannerOption configures the Planner
type PlannerOption func(*Planner)

// WithPlannerHTTPClient overrides the HTTP client used for planner requests
func WithPlannerHTTPClient(client *http.Client) PlannerOption {
	return func(p *Planner) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithTokenURL overrides the OAuth token endpoint
func WithTokenURL(url string) PlannerOption {
	return func(p *Planner) {
		if url != "" {
			p.tokenURL = url
		}
	}
}

// WithIdeasBaseURL overrides the keyword planner API root
func WithIdeasBaseURL(url string) PlannerOption {
	return func(p *Planner) {
		if url != "" {
			p.ideasBaseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// NewPlanner creates a keyword planner source. Every credential field is
// required; partial credentials disable the source.
func NewPlanner(creds PlannerCredentials, opts ...PlannerOption) (*Planner, error) {
	if !creds.complete() {
		return nil, ErrPlannerNotConfigured
	}

	p := &Planner{
		clientID:       creds.ClientID,
		clientSecret:   creds.ClientSecret,
		refreshToken:   creds.RefreshToken,
		developerToken: creds.DeveloperToken,
		customerID:     creds.CustomerID,
		tokenURL:       defaultTokenURL,
		ideasBaseURL:   defaultIdeasBaseURL,
		httpClient:     &http.Client{Timeout: plannerTimeout},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Suggest returns keyword ideas for the seed set
func (p *Planner) Suggest(ctx context.Context, seeds []string) ([]string, error) {
	if len(seeds) == 0 {
		return nil, nil
	}

	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	return p.keywordIdeas(ctx, token, seeds)
}

// accessToken trades the refresh token for a short-lived access token
func (p *Planner) accessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	form.Set("refresh_token", p.refreshToken)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenRefresh, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenRefresh, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrTokenRefresh, resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenRefresh, err)
	}

	if out.AccessToken == "" {
		return "", ErrTokenRefresh
	}

	return out.AccessToken, nil
}

// keywordIdeas queries the idea generation endpoint for the seed set
func (p *Planner) keywordIdeas(ctx context.Context, token string, seeds []string) ([]string, error) {
	body, err := json.Marshal(map[string]any{
		"keywordSeed":        map[string]any{"keywords": seeds},
		"keywordPlanNetwork": "GOOGLE_SEARCH",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	ideasURL := fmt.Sprintf("%s/customers/%s:generateKeywordIdeas", p.ideasBaseURL, p.customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ideasURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("developer-token", p.developerToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out struct {
		Results []struct {
			Text string `json:"text"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	ideas := make([]string, 0, len(out.Results))

	for _, r := range out.Results {
		if r.Text != "" {
			ideas = append(ideas, r.Text)
		}
	}

	return ideas, nil
}
