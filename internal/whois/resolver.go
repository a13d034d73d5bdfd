// Package whois resolves domain registration data for the authority score.
// Lookups run through an ordered strategy list: the system whois client
// first, then public RDAP, then a commercial WHOIS API when a key is
// configured. The first strategy producing a registration date wins.
package whois

import (
	"context"
	"net/http"
	"strings"
	"time"

	rdaplib "github.com/openrdap/rdap"
	"github.com/rs/zerolog/log"

	"github.com/jerilmartin/rankprobe/internal/types"
)

const (
	// defaultTimeout bounds each registration lookup
	defaultTimeout = 10 * time.Second

	// hoursPerDay is the number of hours in a day for age calculation
	hoursPerDay = 24
	// daysPerYear reflects the mean calendar year including leap days
	daysPerYear = 365.25
)

// Source labels recorded on resolved registration data.
const (
	SourceCommand    = "whois"
	SourceRDAP       = "rdap"
	SourceProvider   = "whois_api"
	SourceUnresolved = "unresolved"
)

// strategy is one capability-equivalent registration lookup
type strategy struct {
	name string
	run  func(ctx context.Context, domain string) (*types.DomainAge, error)
}

// Resolver determines domain registration data through a tiered lookup
type Resolver struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	rdapClient *rdaplib.Client
	timeout    time.Duration
	strategies []strategy
}

// ResolverOption configures the Resolver
type ResolverOption func(*Resolver)

// WithHTTPClient overrides the HTTP client used for provider and RDAP lookups
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *Resolver) {
		if client != nil {
			r.httpClient = client
			r.rdapClient.HTTP = client
		}
	}
}

// WithBaseURL overrides the WHOIS provider endpoint
func WithBaseURL(url string) ResolverOption {
	return func(r *Resolver) {
		if url != "" {
			r.baseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithTimeout overrides the per-lookup timeout
func WithTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		if timeout > 0 {
			r.timeout = timeout
			r.httpClient.Timeout = timeout
		}
	}
}

// NewResolver creates a registration data resolver. An empty apiKey disables
// the provider tier; the command and RDAP tiers are always available.
func NewResolver(apiKey string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		apiKey:     apiKey,
		baseURL:    defaultProviderBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		rdapClient: &rdaplib.Client{},
		timeout:    defaultTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.strategies = []strategy{
		{name: SourceCommand, run: r.fromCommand},
		{name: SourceRDAP, run: r.fromRDAP},
	}

	if r.apiKey != "" {
		r.strategies = append(r.strategies, strategy{name: SourceProvider, run: r.fromProvider})
	}

	return r
}

// Resolve determines registration data for a domain. Resolution never fails
// outright; when every strategy comes up empty the age simply stays unknown.
func (r *Resolver) Resolve(ctx context.Context, domain string) *types.DomainAge {
	domain = strings.TrimSpace(strings.ToLower(domain))
	if domain == "" {
		return &types.DomainAge{Source: SourceUnresolved}
	}

	for _, s := range r.strategies {
		age, err := s.run(ctx, domain)
		if err == nil && age != nil {
			return age
		}

		log.Debug().Err(err).Str("domain", domain).Str("strategy", s.name).Msg("registration lookup failed, trying next strategy")
	}

	return &types.DomainAge{Source: SourceUnresolved}
}

// fromRDAP queries the public RDAP infrastructure for registration events
func (r *Resolver) fromRDAP(ctx context.Context, domain string) (*types.DomainAge, error) {
	req := &rdaplib.Request{
		Type:    rdaplib.DomainRequest,
		Query:   domain,
		Timeout: r.timeout,
	}

	req = req.WithContext(ctx)

	resp, err := r.rdapClient.Do(req)
	if err != nil {
		return nil, err
	}

	domainObj, ok := resp.Object.(*rdaplib.Domain)
	if !ok || domainObj == nil {
		return nil, ErrNoRegistrationDate
	}

	return buildRDAPAge(domainObj)
}

// buildRDAPAge extracts registration data from an RDAP domain response
func buildRDAPAge(d *rdaplib.Domain) (*types.DomainAge, error) {
	age := &types.DomainAge{Source: SourceRDAP}

	for _, event := range d.Events {
		parsed, err := time.Parse(time.RFC3339, event.Date)
		if err != nil {
			continue
		}

		t := parsed

		switch strings.ToLower(event.Action) {
		case "registration":
			age.Created = &t
		case "expiration":
			age.Expires = &t
		}
	}

	for _, entity := range d.Entities {
		for _, role := range entity.Roles {
			if strings.EqualFold(role, "registrar") {
				if entity.VCard != nil {
					age.Registrar = entity.VCard.Name()
				} else if entity.Handle != "" {
					age.Registrar = entity.Handle
				}

				break
			}
		}
	}

	if age.Created == nil {
		return nil, ErrNoRegistrationDate
	}

	years := AgeYears(*age.Created, time.Now())
	age.Years = &years

	return age, nil
}

// AgeYears returns full years elapsed between created and now, never negative
func AgeYears(created, now time.Time) int {
	if created.After(now) {
		return 0
	}

	return int(now.Sub(created).Hours() / (hoursPerDay * daysPerYear))
}
