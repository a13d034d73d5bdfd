// Package technical probes the crawlability foundations of a site: HTTPS
// reachability, robots.txt, and an XML sitemap, with DNS records gathered
// alongside for context.
package technical

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/miekg/dns"

	"github.com/jerilmartin/rankprobe/internal/types"
)

// Check names as they appear in the technical report.
const (
	CheckHTTPS   = "https"
	CheckRobots  = "robots_txt"
	CheckSitemap = "sitemap"
)

const (
	pointsHTTPS   = 10
	pointsRobots  = 7
	pointsSitemap = 8

	// MaxScore is the technical score ceiling
	MaxScore = pointsHTTPS + pointsRobots + pointsSitemap
)

// Checker probes a site's technical foundations.
type Checker struct {
	client     *http.Client
	dnsClient  *dns.Client
	dnsServer  string
	dnsEnabled bool
	userAgent  string
	baseURL    string
}

// NewChecker creates a technical checker with the given options.
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{
		client:     &http.Client{Timeout: defaultTimeout},
		dnsClient:  &dns.Client{Timeout: defaultDNSTimeout},
		dnsServer:  defaultDNSServer,
		dnsEnabled: true,
		userAgent:  defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Check runs every technical probe against the host concurrently and returns
// the aggregated report. Individual probe failures are recorded as failed
// checks, never as errors.
func (c *Checker) Check(ctx context.Context, host string) *types.TechnicalReport {
	report := &types.TechnicalReport{
		MaxScore: MaxScore,
		Checks:   make(map[string]types.TechnicalCheck, 3),
	}

	type outcome struct {
		name  string
		check types.TechnicalCheck
	}

	checks := []struct {
		name string
		fn   func(context.Context, string) types.TechnicalCheck
	}{
		{CheckHTTPS, c.checkHTTPS},
		{CheckRobots, c.checkRobots},
		{CheckSitemap, c.checkSitemap},
	}

	results := make(chan outcome, len(checks))

	var wg sync.WaitGroup

	for _, chk := range checks {
		wg.Add(1)

		go func(name string, fn func(context.Context, string) types.TechnicalCheck) {
			defer wg.Done()

			results <- outcome{name: name, check: fn(ctx, host)}
		}(chk.name, chk.fn)
	}

	var records *types.DNSRecords

	if c.dnsEnabled {
		wg.Add(1)

		go func() {
			defer wg.Done()

			records = c.lookupDNS(ctx, host)
		}()
	}

	wg.Wait()
	close(results)

	for o := range results {
		report.Checks[o.name] = o.check

		if o.check.Passed {
			report.Score += o.check.Points
		}
	}

	report.DNS = records
	report.Summary = summarize(report)

	return report
}

// checkHTTPS verifies the site answers over HTTPS at all; any response
// counts, only transport failures do not.
func (c *Checker) checkHTTPS(ctx context.Context, host string) types.TechnicalCheck {
	resp, err := c.get(ctx, c.rootURL(host))
	if err != nil {
		return types.TechnicalCheck{Points: pointsHTTPS, Detail: fmt.Sprintf("no HTTPS response: %v", err)}
	}

	defer func() { _ = resp.Body.Close() }()

	return types.TechnicalCheck{
		Passed: true,
		Points: pointsHTTPS,
		Detail: fmt.Sprintf("responded with status %d", resp.StatusCode),
	}
}

// checkRobots verifies /robots.txt is served with status 200.
func (c *Checker) checkRobots(ctx context.Context, host string) types.TechnicalCheck {
	return c.checkPath(ctx, host, "/robots.txt", pointsRobots)
}

// sitemapPaths are the well-known sitemap locations, tried in order.
var sitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemap.txt"}

// checkSitemap looks for a sitemap at the well-known paths; the first one
// served with status 200 wins.
func (c *Checker) checkSitemap(ctx context.Context, host string) types.TechnicalCheck {
	for _, path := range sitemapPaths {
		if check := c.checkPath(ctx, host, path, pointsSitemap); check.Passed {
			return check
		}
	}

	return types.TechnicalCheck{Points: pointsSitemap, Detail: "no sitemap at any well-known path"}
}

// checkPath fetches a well-known path on the site root and passes only on a
// 200 response.
func (c *Checker) checkPath(ctx context.Context, host, path string, points int) types.TechnicalCheck {
	resp, err := c.get(ctx, c.rootURL(host)+path)
	if err != nil {
		return types.TechnicalCheck{Points: points, Detail: fmt.Sprintf("%s unreachable: %v", path, err)}
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return types.TechnicalCheck{Points: points, Detail: fmt.Sprintf("%s returned status %d", path, resp.StatusCode)}
	}

	return types.TechnicalCheck{Passed: true, Points: points, Detail: fmt.Sprintf("%s found", path)}
}

// get issues a GET request with the checker's user agent.
func (c *Checker) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)

	return c.client.Do(req)
}

// rootURL returns the site root the checks probe against.
func (c *Checker) rootURL(host string) string {
	if c.baseURL != "" {
		return c.baseURL
	}

	return "https://" + host
}

// lookupDNS gathers A, AAAA, NS, and MX records for context. Returns nil when
// nothing resolves.
func (c *Checker) lookupDNS(ctx context.Context, host string) *types.DNSRecords {
	records := &types.DNSRecords{
		A:    c.queryRecords(ctx, host, dns.TypeA),
		AAAA: c.queryRecords(ctx, host, dns.TypeAAAA),
		NS:   c.queryRecords(ctx, host, dns.TypeNS),
		MX:   c.queryRecords(ctx, host, dns.TypeMX),
	}

	if len(records.A) == 0 && len(records.AAAA) == 0 && len(records.NS) == 0 && len(records.MX) == 0 {
		return nil
	}

	return records
}

// queryRecords performs a single DNS query and renders the answers.
func (c *Checker) queryRecords(ctx context.Context, host string, qtype uint16) []string {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true

	resp, _, err := c.dnsClient.ExchangeContext(ctx, msg, c.dnsServer)
	if err != nil || resp == nil {
		return nil
	}

	var values []string

	for _, rr := range resp.Answer {
		switch record := rr.(type) {
		case *dns.A:
			values = append(values, record.A.String())
		case *dns.AAAA:
			values = append(values, record.AAAA.String())
		case *dns.NS:
			values = append(values, strings.TrimSuffix(record.Ns, "."))
		case *dns.MX:
			values = append(values, fmt.Sprintf("%d %s", record.Preference, strings.TrimSuffix(record.Mx, ".")))
		}
	}

	return values
}

// summarize renders the one-line report summary.
func summarize(r *types.TechnicalReport) string {
	passed := 0

	for _, chk := range r.Checks {
		if chk.Passed {
			passed++
		}
	}

	switch passed {
	case len(r.Checks):
		return "all technical checks passed"
	case 0:
		return "no technical checks passed"
	default:
		return fmt.Sprintf("%d of %d technical checks passed", passed, len(r.Checks))
	}
}
