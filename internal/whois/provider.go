package whois

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

// defaultProviderBaseURL is the commercial WHOIS JSON endpoint
const defaultProviderBaseURL = "https://whoisjsonapi.com/v1"

// providerResponse is the slice of the provider payload we consume
type providerResponse struct {
	Domain struct {
		Domain         string   `json:"domain"`
		CreatedDate    string   `json:"created_date"`
		UpdatedDate    string   `json:"updated_date"`
		ExpirationDate string   `json:"expiration_date"`
		Status         []string `json:"status"`
	} `json:"domain"`
	Registrar struct {
		Name string `json:"name"`
	} `json:"registrar"`
}

// dateLayouts are tried in order; registries render dates in wildly
// different formats
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02-Jan-2006",
	"2006.01.02 15:04:05",
	"January 2 2006",
}

// fromProvider queries the WHOIS provider for registration data
func (r *Resolver) fromProvider(ctx context.Context, domain string) (*types.DomainAge, error) {
	requester := httpsling.MustNew(
		httpsling.URL(r.baseURL+"/"+url.PathEscape(domain)),
		httpsling.BearerAuth(r.apiKey),
		httpsling.WithHTTPClient(r.httpClient),
	)

	var out providerResponse

	resp, err := requester.ReceiveWithContext(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	created, ok := parseDate(out.Domain.CreatedDate)
	if !ok {
		return nil, ErrNoRegistrationDate
	}

	age := &types.DomainAge{
		Created:   &created,
		Registrar: out.Registrar.Name,
		Source:    SourceProvider,
	}

	if expires, ok := parseDate(out.Domain.ExpirationDate); ok {
		age.Expires = &expires
	}

	years := AgeYears(created, time.Now())
	age.Years = &years

	return age, nil
}

// parseDate tries each known registry date layout in order
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
