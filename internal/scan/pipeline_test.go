package scan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/jerilmartin/rankprobe/internal/entity"
	"github.com/jerilmartin/rankprobe/internal/fetcher"
	"github.com/jerilmartin/rankprobe/internal/keywords"
	"github.com/jerilmartin/rankprobe/internal/pagespeed"
	"github.com/jerilmartin/rankprobe/internal/serp"
	"github.com/jerilmartin/rankprobe/internal/technical"
	"github.com/jerilmartin/rankprobe/internal/types"
)

const pipelinePage = `<!DOCTYPE html>
<html>
<head>
<title>Premium Garden Tools | Example Store</title>
<meta name="description" content="Quality garden tools and compost bins">
<meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
<h1>Garden Tools</h1>
<p>Shop our full range of spades, trowels, and pruning shears for every season of the year.</p>
</body>
</html>`

const pipelinePSI = `{
	"lighthouseResult": {
		"categories": {
			"performance": {"score": 0.9},
			"accessibility": {"score": 0.85},
			"seo": {"score": 0.8}
		},
		"audits": {
			"largest-contentful-paint": {"numericValue": 2000},
			"cumulative-layout-shift": {"numericValue": 0.05},
			"first-contentful-paint": {"numericValue": 1500},
			"viewport": {"score": 1}
		}
	}
}`

const pipelineSERP = `{
	"search_information": {"total_results": 5000000},
	"organic_results": [
		{"position": 1, "title": "Garden Pro", "link": "https://gardenpro.net/", "snippet": "Professional gear."},
		{"position": 2, "title": "Rival Tools", "link": "https://rivaltools.com/tools", "snippet": "Tools for every job."},
		{"position": 3, "title": "Example Store", "link": "https://example.com/shop", "snippet": "Our own range."}
	]
}`

const pipelineKG = `{
	"itemListElement": [
		{
			"result": {"name": "Example", "@type": ["Organization"], "description": "A sample organization."},
			"resultScore": 88.5
		}
	]
}`

const pipelineNL = `{
	"entities": [
		{"name": "garden tools", "salience": 0.62},
		{"name": "compost bins", "salience": 0.21}
	]
}`

// rewriteTransport sends every request to the test server regardless of the
// host the client asked for.
type rewriteTransport struct {
	base *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.URL.Scheme = t.base.Scheme
	clone.URL.Host = t.base.Host

	return http.DefaultTransport.RoundTrip(clone)
}

type progressStep struct {
	label   string
	percent int
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

func TestPipelineRun(t *testing.T) {
	siteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprint(w, "User-agent: *\nAllow: /\n")
		case "/sitemap.xml":
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><urlset></urlset>`)
		default:
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, pipelinePage)
		}
	}))
	defer siteSrv.Close()

	psiSrv := httptest.NewServer(jsonHandler(pipelinePSI))
	defer psiSrv.Close()

	serpSrv := httptest.NewServer(jsonHandler(pipelineSERP))
	defer serpSrv.Close()

	kgSrv := httptest.NewServer(jsonHandler(pipelineKG))
	defer kgSrv.Close()

	nlSrv := httptest.NewServer(jsonHandler(pipelineNL))
	defer nlSrv.Close()

	siteURL, err := url.Parse(siteSrv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	psClient, err := pagespeed.New("test-key", pagespeed.WithBaseURL(psiSrv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	serpClient, err := serp.New("test-key",
		serp.WithBaseURL(serpSrv.URL),
		serp.WithInterval(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entityClient, err := entity.New("test-key",
		entity.WithKGBaseURL(kgSrv.URL),
		entity.WithNLBaseURL(nlSrv.URL),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pages := fetcher.New(
		fetcher.WithHTTPClient(&http.Client{Transport: rewriteTransport{base: siteURL}}),
		fetcher.WithRender(false),
	)
	defer pages.Close()

	pipeline := NewPipeline(
		WithTechnicalChecker(technical.NewChecker(
			technical.WithBaseURL(siteSrv.URL),
			technical.WithDNSLookups(false),
		)),
		WithPagespeedClient(psClient),
		WithPageFetcher(pages),
		WithEntityClient(entityClient),
		WithKeywordAnalyzer(keywords.NewAnalyzer(serpClient, keywords.WithLocations([]string{"us"}))),
	)

	var steps []progressStep

	result, err := pipeline.Run(context.Background(), "example.com", func(label string, percent int) {
		steps = append(steps, progressStep{label: label, percent: percent})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSteps := []progressStep{
		{StepTechnical, 10},
		{StepPerformance, 25},
		{StepContent, 40},
		{StepAuthority, 55},
		{StepPositions, 70},
		{StepCompetitors, 85},
		{StepScoring, 95},
	}
	if !reflect.DeepEqual(steps, wantSteps) {
		t.Errorf("unexpected step sequence %v", steps)
	}

	if result.Domain != "example.com" {
		t.Errorf("unexpected domain %q", result.Domain)
	}
	if result.Technical == nil || result.Technical.Score != 25 {
		t.Fatalf("expected full technical score, got %+v", result.Technical)
	}
	if result.Lighthouse == nil || !result.Lighthouse.Available {
		t.Fatal("expected lighthouse metrics to be available")
	}

	wantBreakdown := types.ScoreBreakdown{Technical: 25, OnPageSEO: 20, Authority: 10, Performance: 24}
	if result.ScoreBreakdown != wantBreakdown {
		t.Errorf("unexpected breakdown %+v", result.ScoreBreakdown)
	}
	if result.HealthScore != wantBreakdown.Total() {
		t.Errorf("health score %d does not equal breakdown total %d", result.HealthScore, wantBreakdown.Total())
	}

	if result.EntityVerification == nil || !result.EntityVerification.Recognized {
		t.Error("expected the brand to be recognized")
	}
	if len(result.ContentSalience) != 2 || result.ContentSalience[0].Entity != "garden tools" {
		t.Errorf("unexpected salience %+v", result.ContentSalience)
	}
	if result.DomainAge != nil {
		t.Error("expected no domain age without a resolver")
	}

	wantKeywords := []string{
		"example",
		"premium garden tools",
		"example store",
		"quality garden tools",
		"compost bins",
		"garden tools",
	}
	if !reflect.DeepEqual(result.ObservedKeywords, wantKeywords) {
		t.Errorf("unexpected keywords %v", result.ObservedKeywords)
	}

	if len(result.SampledPositions) != len(wantKeywords) {
		t.Fatalf("expected %d sampled positions, got %d", len(wantKeywords), len(result.SampledPositions))
	}
	if result.SampledPositions[0].Keyword != "example" || result.SampledPositions[0].Position != 3 {
		t.Errorf("unexpected first position %+v", result.SampledPositions[0])
	}

	if len(result.QuickWins) != len(wantKeywords) {
		t.Errorf("expected every keyword as a quick win, got %d", len(result.QuickWins))
	}
	if len(result.HighOpportunityKeywords) != 0 {
		t.Errorf("expected no high opportunity keywords, got %d", len(result.HighOpportunityKeywords))
	}
	if len(result.MissedKeywords) != 0 {
		t.Errorf("expected no missed keywords, got %+v", result.MissedKeywords)
	}
	if len(result.ActionItems) != 0 {
		t.Errorf("expected no action items for a healthy site, got %+v", result.ActionItems)
	}

	wantCompetitors := []types.CompetitorRank{
		{Domain: "gardenpro.net", Appearances: 6},
		{Domain: "rivaltools.com", Appearances: 6},
	}
	if !reflect.DeepEqual(result.TopCompetitors, wantCompetitors) {
		t.Errorf("unexpected competitors %+v", result.TopCompetitors)
	}

	if len(result.RegionalAnalysis) != 3 {
		t.Errorf("expected regional analysis for the top 3 keywords, got %d", len(result.RegionalAnalysis))
	}
	if len(result.DeviceComparison) != 3 {
		t.Fatalf("expected device comparison for the top 3 keywords, got %d", len(result.DeviceComparison))
	}
	if result.DeviceComparison[0].Analysis != "consistent across devices" {
		t.Errorf("unexpected device analysis %q", result.DeviceComparison[0].Analysis)
	}

	if len(result.KeywordClusters) != 1 || result.KeywordClusters[0].Theme != "example" {
		t.Errorf("unexpected clusters %+v", result.KeywordClusters)
	}

	if result.ScannedAt.IsZero() {
		t.Error("expected scanned at to be set")
	}
}

func TestPipelineRunPartialProbes(t *testing.T) {
	siteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer siteSrv.Close()

	pipeline := NewPipeline(
		WithTechnicalChecker(technical.NewChecker(
			technical.WithBaseURL(siteSrv.URL),
			technical.WithDNSLookups(false),
		)),
	)

	result, err := pipeline.Run(context.Background(), "example.com", nil)
	if err != nil {
		t.Fatalf("expected the scan to complete on partial signals, got %v", err)
	}

	b := result.ScoreBreakdown
	if b.Technical != 10 || b.OnPageSEO != 0 || b.Authority != 0 || b.Performance != 0 {
		t.Errorf("unexpected breakdown %+v", b)
	}
	if result.HealthScore != 10 {
		t.Errorf("expected health score 10 from the HTTPS check alone, got %d", result.HealthScore)
	}
	if result.Technical == nil || result.Technical.Summary != "1 of 3 technical checks passed" {
		t.Errorf("unexpected technical report %+v", result.Technical)
	}
	if result.Lighthouse == nil || result.Lighthouse.Available {
		t.Error("expected the performance section to stay unavailable")
	}
}

func TestPipelineRunUnreachable(t *testing.T) {
	pipeline := NewPipeline()

	var steps []progressStep

	result, err := pipeline.Run(context.Background(), "example.com", func(label string, percent int) {
		steps = append(steps, progressStep{label: label, percent: percent})
	})
	if !errors.Is(err, ErrTargetUnreachable) {
		t.Fatalf("expected ErrTargetUnreachable, got %v", err)
	}
	if result != nil {
		t.Error("expected no result for an unreachable target")
	}

	// The parallel probe group is still announced before the failure.
	if len(steps) != 3 || steps[2].label != StepContent {
		t.Errorf("unexpected steps before failure: %v", steps)
	}
}

func TestPipelineRunInvalidTarget(t *testing.T) {
	pipeline := NewPipeline()

	_, err := pipeline.Run(context.Background(), "localhost", nil)
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestUnreachable(t *testing.T) {
	testCases := []struct {
		name    string
		report  *types.TechnicalReport
		metrics *types.LighthouseMetrics
		page    *fetcher.Page
		want    bool
	}{
		{
			name: "nothing at all",
			want: true,
		},
		{
			name:    "unavailable audit and zero checks",
			report:  &types.TechnicalReport{},
			metrics: &types.LighthouseMetrics{},
			want:    true,
		},
		{
			name: "page fetched",
			page: &fetcher.Page{},
			want: false,
		},
		{
			name:    "audit available",
			metrics: &types.LighthouseMetrics{Available: true},
			want:    false,
		},
		{
			name:   "a technical check passed",
			report: &types.TechnicalReport{Score: 10},
			want:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := unreachable(tc.report, tc.metrics, tc.page); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
