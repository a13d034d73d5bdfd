package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jerilmartin/rankprobe/internal/domain"
	"github.com/jerilmartin/rankprobe/internal/entity"
	"github.com/jerilmartin/rankprobe/internal/fetcher"
	"github.com/jerilmartin/rankprobe/internal/health"
	"github.com/jerilmartin/rankprobe/internal/keywords"
	"github.com/jerilmartin/rankprobe/internal/pagespeed"
	"github.com/jerilmartin/rankprobe/internal/technical"
	"github.com/jerilmartin/rankprobe/internal/types"
	"github.com/jerilmartin/rankprobe/internal/whois"
)

// Step labels announced as each probe group is collected.
const (
	StepTechnical   = "Checking technical foundations"
	StepPerformance = "Measuring page performance"
	StepContent     = "Analyzing website content"
	StepAuthority   = "Resolving domain authority"
	StepPositions   = "Scanning keyword positions"
	StepCompetitors = "Comparing SERP competitors"
	StepScoring     = "Scoring opportunities"
)

// Progress checkpoints paired with the step labels above.
const (
	progressTechnical   = 10
	progressPerformance = 25
	progressContent     = 40
	progressAuthority   = 55
	progressPositions   = 70
	progressCompetitors = 85
	progressScoring     = 95
)

// defaultMaxKeywords caps the keyword set sampled per scan
const defaultMaxKeywords = 10

// Pipeline runs every probe for one scan and folds the outputs into a
// ScanResult. Probes left unconfigured are skipped; their sections stay
// empty and contribute nothing to the health score.
type Pipeline struct {
	technical   *technical.Checker
	pagespeed   *pagespeed.Client
	fetcher     *fetcher.Fetcher
	whois       *whois.Resolver
	entity      *entity.Client
	analyzer    *keywords.Analyzer
	maxKeywords int
}

// PipelineOption configures the Pipeline
type PipelineOption func(*Pipeline)

// WithTechnicalChecker sets the technical foundations checker
func WithTechnicalChecker(checker *technical.Checker) PipelineOption {
	return func(p *Pipeline) {
		p.technical = checker
	}
}

// WithPagespeedClient sets the performance audit client
func WithPagespeedClient(client *pagespeed.Client) PipelineOption {
	return func(p *Pipeline) {
		p.pagespeed = client
	}
}

// WithPageFetcher sets the content fetcher
func WithPageFetcher(f *fetcher.Fetcher) PipelineOption {
	return func(p *Pipeline) {
		p.fetcher = f
	}
}

// WithWhoisResolver sets the registration data resolver
func WithWhoisResolver(resolver *whois.Resolver) PipelineOption {
	return func(p *Pipeline) {
		p.whois = resolver
	}
}

// WithEntityClient sets the knowledge graph and salience client
func WithEntityClient(client *entity.Client) PipelineOption {
	return func(p *Pipeline) {
		p.entity = client
	}
}

// WithKeywordAnalyzer sets the keyword intelligence analyzer
func WithKeywordAnalyzer(analyzer *keywords.Analyzer) PipelineOption {
	return func(p *Pipeline) {
		p.analyzer = analyzer
	}
}

// WithMaxKeywords caps the keyword set sampled per scan
func WithMaxKeywords(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxKeywords = n
		}
	}
}

// NewPipeline creates a probe pipeline with the given options.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		maxKeywords: defaultMaxKeywords,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes the full probe sequence against target. progress is invoked
// at each checkpoint with the step label and percent complete. Individual
// probe failures degrade their sections; Run fails only when the target is
// invalid or no probe could reach it at all.
func (p *Pipeline) Run(ctx context.Context, target string, progress func(step string, percent int)) (*types.ScanResult, error) {
	info, err := domain.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}

	if progress == nil {
		progress = func(string, int) {}
	}

	var (
		report  *types.TechnicalReport
		metrics *types.LighthouseMetrics
		page    *fetcher.Page
	)

	techDone := make(chan struct{})
	perfDone := make(chan struct{})
	contentDone := make(chan struct{})

	go func() {
		defer close(techDone)
		report = p.checkTechnical(ctx, info.Host)
	}()
	go func() {
		defer close(perfDone)
		metrics = p.audit(ctx, info.URL)
	}()
	go func() {
		defer close(contentDone)
		page = p.fetch(ctx, info.URL)
	}()

	// The three probes run concurrently; the step label advances as each
	// result is collected in a fixed order.
	progress(StepTechnical, progressTechnical)
	<-techDone
	progress(StepPerformance, progressPerformance)
	<-perfDone
	progress(StepContent, progressContent)
	<-contentDone

	if unreachable(report, metrics, page) {
		return nil, fmt.Errorf("%w: no probe produced a signal for %s", ErrTargetUnreachable, info.Domain)
	}

	progress(StepAuthority, progressAuthority)

	age := p.resolveAge(ctx, info.Domain)
	verification := p.verifyEntity(ctx, info)
	salience := p.analyzeSalience(ctx, page)

	progress(StepPositions, progressPositions)

	seeds := []string{info.SeedPhrase()}
	observed := keywords.Extract(page, seeds, p.maxKeywords)

	var title, description string
	if page != nil {
		title = page.Title
		description = page.MetaDescription
	}

	intel := p.analyzer.Analyze(ctx, keywords.Input{
		Target:          info,
		Keywords:        observed,
		Seeds:           seeds,
		Title:           title,
		MetaDescription: description,
	})

	progress(StepCompetitors, progressCompetitors)

	result := &types.ScanResult{
		Domain:             info.Domain,
		ScannedAt:          time.Now().UTC(),
		Technical:          report,
		Lighthouse:         metrics,
		DomainAge:          age,
		EntityVerification: verification,
		ContentSalience:    salience,
		ObservedKeywords:   observed,
	}

	if page != nil {
		result.TechStack = page.Technologies
	}

	if intel != nil {
		result.KeywordSignals = intel.Signals
		result.SampledPositions = intel.Positions
		result.SERPCompetitors = intel.Competitors
		result.TopCompetitors = intel.TopCompetitors
		result.MissedKeywords = intel.Missed
		result.SuggestedKeywords = intel.Suggestions
		result.QuickWins = intel.QuickWins
		result.HighOpportunityKeywords = intel.HighOpportunity
		result.RegionalAnalysis = intel.Regional
		result.DeviceComparison = intel.Device
		result.CTRAnalysis = intel.CTR
		result.KeywordClusters = intel.Clusters
	}

	progress(StepScoring, progressScoring)

	inputs := health.Inputs{
		Technical:  report,
		Lighthouse: metrics,
		DomainAge:  age,
		Entity:     verification,
	}

	breakdown := health.Score(inputs)
	result.ScoreBreakdown = breakdown
	result.HealthScore = breakdown.Total()
	result.ActionItems = health.ActionItems(inputs, result.QuickWins)

	normalizeResult(result)

	return result, nil
}

// checkTechnical runs the technical foundations probe
func (p *Pipeline) checkTechnical(ctx context.Context, host string) *types.TechnicalReport {
	if p.technical == nil {
		return nil
	}

	return p.technical.Check(ctx, host)
}

// audit runs the performance audit, degrading to an unavailable section on
// any failure
func (p *Pipeline) audit(ctx context.Context, target string) *types.LighthouseMetrics {
	if p.pagespeed == nil {
		return &types.LighthouseMetrics{Detail: "performance audit not configured"}
	}

	metrics, err := p.pagespeed.Audit(ctx, target)
	if err != nil {
		log.Debug().Err(err).Str("target", target).Msg("performance audit failed, skipping")

		return &types.LighthouseMetrics{Detail: "performance audit unavailable"}
	}

	return metrics
}

// fetch retrieves the target page for content signals
func (p *Pipeline) fetch(ctx context.Context, target string) *fetcher.Page {
	if p.fetcher == nil {
		return nil
	}

	page, err := p.fetcher.Fetch(ctx, target)
	if err != nil {
		log.Debug().Err(err).Str("target", target).Msg("page fetch failed, skipping content signals")

		return nil
	}

	return page
}

// resolveAge looks up the domain's registration data
func (p *Pipeline) resolveAge(ctx context.Context, domainName string) *types.DomainAge {
	if p.whois == nil {
		return nil
	}

	return p.whois.Resolve(ctx, domainName)
}

// verifyEntity checks brand recognition against the knowledge graph
func (p *Pipeline) verifyEntity(ctx context.Context, info *domain.Info) *types.EntityVerification {
	if p.entity == nil {
		return nil
	}

	verification, err := p.entity.Verify(ctx, info.SeedPhrase())
	if err != nil {
		log.Debug().Err(err).Str("domain", info.Domain).Msg("entity verification failed, skipping")

		return nil
	}

	return verification
}

// analyzeSalience weighs the page's entities by salience
func (p *Pipeline) analyzeSalience(ctx context.Context, page *fetcher.Page) []types.SalientEntity {
	if p.entity == nil || page == nil {
		return nil
	}

	entities, err := p.entity.AnalyzeSalience(ctx, page.VisibleText)
	if err != nil {
		log.Debug().Err(err).Str("url", page.URL).Msg("salience analysis failed, skipping")

		return nil
	}

	return entities
}

// unreachable reports whether no probe produced any signal for the target:
// the page would not fetch, the audit never ran, and no technical check
// passed.
func unreachable(report *types.TechnicalReport, metrics *types.LighthouseMetrics, page *fetcher.Page) bool {
	if page != nil {
		return false
	}

	if metrics != nil && metrics.Available {
		return false
	}

	if report != nil && report.Score > 0 {
		return false
	}

	return true
}

// normalizeResult replaces nil collections with empty ones so the stored
// result always serializes them as arrays.
func normalizeResult(result *types.ScanResult) {
	if result.ObservedKeywords == nil {
		result.ObservedKeywords = []string{}
	}

	if result.SampledPositions == nil {
		result.SampledPositions = []types.SampledPosition{}
	}

	if result.QuickWins == nil {
		result.QuickWins = []types.KeywordSignal{}
	}

	if result.HighOpportunityKeywords == nil {
		result.HighOpportunityKeywords = []types.KeywordSignal{}
	}

	if result.ActionItems == nil {
		result.ActionItems = []types.ActionItem{}
	}

	if result.SERPCompetitors.Direct == nil {
		result.SERPCompetitors.Direct = []string{}
	}

	if result.SERPCompetitors.Content == nil {
		result.SERPCompetitors.Content = []string{}
	}
}
