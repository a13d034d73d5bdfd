// Package domain parses scan targets into their registrable parts.
package domain

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Info contains the parsed identity of a scan target
type Info struct {
	// URL is the normalized target URL, always carrying a scheme
	URL string `json:"url"`
	// Host is the lowercased hostname with any port removed
	Host string `json:"host"`
	// Domain is the registrable domain (eTLD+1)
	Domain string `json:"domain"`
	// Subdomain is the label prefix in front of the registrable domain
	Subdomain string `json:"subdomain,omitempty"`
	// TLD is the effective public suffix
	TLD string `json:"tld"`
	// SLD is the label in front of the public suffix
	SLD string `json:"sld"`
}

// Parse normalizes a scan target into its domain parts. The input may be a
// full URL or a bare hostname; a missing scheme defaults to https.
func Parse(input string) (*Info, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyTarget
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	u, err := url.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidTarget, u.Scheme)
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" || !strings.Contains(host, ".") {
		return nil, ErrInvalidTarget
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}

	tld, _ := publicsuffix.PublicSuffix(host)
	sld := strings.TrimSuffix(etld1, "."+tld)
	subdomain := ""
	if host != etld1 {
		subdomain = strings.TrimSuffix(host, "."+etld1)
	}

	// Rebuild the URL around the cleaned host so downstream fetches see a
	// stable form.
	u.Host = host
	u.Fragment = ""
	if u.Path == "/" && u.RawQuery == "" {
		u.Path = ""
	}

	return &Info{
		URL:       u.String(),
		Host:      host,
		Domain:    etld1,
		Subdomain: subdomain,
		TLD:       tld,
		SLD:       sld,
	}, nil
}

// CoreToken returns the site's brand token, the second-level label with
// hyphens removed.
func (i *Info) CoreToken() string {
	return strings.ReplaceAll(i.SLD, "-", "")
}

// SeedTerms splits the second-level label into its hyphenated words.
func (i *Info) SeedTerms() []string {
	var terms []string

	for _, part := range strings.Split(i.SLD, "-") {
		if part != "" {
			terms = append(terms, part)
		}
	}

	return terms
}

// SeedPhrase returns the seed keyword derived from the domain name, with
// hyphens turned into spaces.
func (i *Info) SeedPhrase() string {
	return strings.Join(i.SeedTerms(), " ")
}

// Matches reports whether host belongs to the same site as the target,
// including any subdomain of it.
func (i *Info) Matches(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))

	return host == i.Domain || strings.HasSuffix(host, "."+i.Domain)
}

// Registrable returns the registrable domain for a host, or the lowercased
// host unchanged when no public suffix division exists for it.
func Registrable(host string) string {
	host = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))

	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld1
	}

	return host
}
