package keywords

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/jerilmartin/rankprobe/internal/domain"
	"github.com/jerilmartin/rankprobe/internal/serp"
	"github.com/jerilmartin/rankprobe/internal/types"
)

const (
	// maxComparedKeywords bounds how many keywords get the regional and
	// device treatment; each compared keyword costs extra provider calls
	// through the serialized limiter.
	maxComparedKeywords = 3
	// maxSuggestions caps the suggested-keyword list before grouping.
	maxSuggestions = 15
	// highOpportunityMin is the opportunity score from which a keyword is
	// reported in the high-opportunity collection.
	highOpportunityMin = 60
)

// defaultLocations are the countries compared when none are configured.
var defaultLocations = []string{"us", "gb", "ca"}

// Analyzer runs the keyword probes for one scan through a shared SERP
// client. Lookups are paced by the client's limiter, so a full analysis is a
// sequential walk over the sampled keywords.
type Analyzer struct {
	client    *serp.Client
	suggester *serp.Suggester
	aliases   map[string]string
	locations []string
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithSuggester wires the suggestion cascade used for keyword ideas.
func WithSuggester(suggester *serp.Suggester) AnalyzerOption {
	return func(a *Analyzer) {
		a.suggester = suggester
	}
}

// WithAliases sets the alias table consulted during position matching.
func WithAliases(aliases map[string]string) AnalyzerOption {
	return func(a *Analyzer) {
		a.aliases = aliases
	}
}

// WithLocations sets the country codes compared in regional analysis.
func WithLocations(locations []string) AnalyzerOption {
	return func(a *Analyzer) {
		if len(locations) > 0 {
			a.locations = locations
		}
	}
}

// NewAnalyzer builds an Analyzer around the SERP client. A nil client is
// allowed and turns Analyze into a no-op, which is how an unconfigured
// provider is skipped.
func NewAnalyzer(client *serp.Client, opts ...AnalyzerOption) *Analyzer {
	analyzer := &Analyzer{
		client:    client,
		locations: defaultLocations,
	}

	for _, opt := range opts {
		opt(analyzer)
	}

	return analyzer
}

// Input assembles what keyword analysis needs from the earlier probes.
type Input struct {
	// Target is the parsed scan target
	Target *domain.Info
	// Keywords is the sampled keyword set from extraction
	Keywords []string
	// Seeds are the seed phrases used for suggestion lookups
	Seeds []string
	// Title is the target page's title, used for CTR analysis
	Title string
	// MetaDescription is the target page's meta description
	MetaDescription string
}

// Intelligence is the complete keyword signal set for one scan.
type Intelligence struct {
	Signals         []types.KeywordSignal
	Positions       []types.SampledPosition
	QuickWins       []types.KeywordSignal
	HighOpportunity []types.KeywordSignal
	Competitors     types.SERPCompetitors
	TopCompetitors  []types.CompetitorRank
	Missed          []types.MissedKeyword
	Suggestions     []types.SuggestionGroup
	Regional        []types.RegionalAnalysis
	Device          []types.DeviceComparison
	CTR             []types.CTRAnalysis
	Clusters        []types.KeywordCluster
}

// Analyze samples every keyword's result page and derives the full signal
// set. Individual lookup failures skip that keyword; Analyze itself never
// fails. A nil receiver client or an empty keyword set yields nil.
func (a *Analyzer) Analyze(ctx context.Context, in Input) *Intelligence {
	if a == nil || a.client == nil || in.Target == nil || len(in.Keywords) == 0 {
		return nil
	}

	matcher := NewMatcher(in.Target, a.aliases)
	intel := &Intelligence{}
	pages := make(map[string]*serp.Response, len(in.Keywords))

	for _, keyword := range in.Keywords {
		resp, err := a.client.Search(ctx, serp.Query{Keyword: keyword})
		if err != nil {
			log.Debug().Err(err).Str("keyword", keyword).Msg("result page lookup failed, skipping keyword")
			if ctx.Err() != nil {
				break
			}
			continue
		}

		pages[keyword] = resp
		position := matcher.Position(resp.Organic)
		signal := buildSignal(keyword, resp, position)

		intel.Signals = append(intel.Signals, signal)
		intel.Positions = append(intel.Positions, types.SampledPosition{Keyword: keyword, Position: position})
		intel.CTR = append(intel.CTR, AnalyzeCTR(keyword, in.Title, in.MetaDescription, topCompetitors(resp.Organic, matcher)))
	}

	if len(intel.Signals) == 0 {
		return intel
	}

	gap := AnalyzeGap(intel.Signals, pages, matcher)
	intel.Competitors = gap.Competitors
	intel.TopCompetitors = gap.Top
	intel.Missed = gap.Missed
	intel.Clusters = Clusters(intel.Signals)

	for _, signal := range intel.Signals {
		if signal.Priority == PriorityHigh || signal.Priority == PriorityMedium {
			intel.QuickWins = append(intel.QuickWins, signal)
		}
		if signal.Opportunity >= highOpportunityMin {
			intel.HighOpportunity = append(intel.HighOpportunity, signal)
		}
	}

	for _, signal := range topByQuickWin(intel.Signals, maxComparedKeywords) {
		if ctx.Err() != nil {
			break
		}

		if regional, ok := a.regional(ctx, matcher, signal.Keyword); ok {
			intel.Regional = append(intel.Regional, regional)
		}
		if device, ok := a.device(ctx, matcher, signal.Keyword); ok {
			intel.Device = append(intel.Device, device)
		}
	}

	intel.Suggestions = a.suggest(ctx, in.Seeds)

	return intel
}

// regional samples the keyword across the configured locations. Locations
// whose lookup fails are left out of the comparison.
func (a *Analyzer) regional(ctx context.Context, matcher *Matcher, keyword string) (types.RegionalAnalysis, bool) {
	positions := make(map[string]int, len(a.locations))

	for _, location := range a.locations {
		resp, err := a.client.Search(ctx, serp.Query{Keyword: keyword, Location: location})
		if err != nil {
			log.Debug().Err(err).Str("keyword", keyword).Str("location", location).Msg("regional lookup failed, skipping location")
			if ctx.Err() != nil {
				break
			}
			continue
		}
		positions[location] = matcher.Position(resp.Organic)
	}

	return buildRegional(keyword, positions)
}

// device compares the keyword's desktop and mobile rankings. The desktop
// query reuses the cached result page from the main sampling pass.
func (a *Analyzer) device(ctx context.Context, matcher *Matcher, keyword string) (types.DeviceComparison, bool) {
	desktop, err := a.client.Search(ctx, serp.Query{Keyword: keyword, Device: serp.DeviceDesktop})
	if err != nil {
		return types.DeviceComparison{}, false
	}

	mobile, err := a.client.Search(ctx, serp.Query{Keyword: keyword, Device: serp.DeviceMobile})
	if err != nil {
		log.Debug().Err(err).Str("keyword", keyword).Msg("mobile lookup failed, skipping device comparison")
		return types.DeviceComparison{}, false
	}

	return buildDeviceComparison(keyword, matcher.Position(desktop.Organic), matcher.Position(mobile.Organic))
}

// suggest runs the suggestion cascade and groups the ideas by intent.
func (a *Analyzer) suggest(ctx context.Context, seeds []string) []types.SuggestionGroup {
	if a.suggester == nil {
		return nil
	}

	words := a.suggester.Suggest(ctx, seeds)
	if len(words) > maxSuggestions {
		words = words[:maxSuggestions]
	}

	return GroupSuggestions(words)
}

// topCompetitors returns the highest-ranked organic results that are not the
// target itself, capped at the CTR comparison window.
func topCompetitors(results []serp.Result, matcher *Matcher) []serp.Result {
	var competitors []serp.Result

	for _, result := range results {
		if matcher.Matches(result.Domain) {
			continue
		}
		competitors = append(competitors, result)
		if len(competitors) == ctrCompareWindow {
			break
		}
	}

	return competitors
}

// topByQuickWin returns up to n signals ordered by quick-win score.
func topByQuickWin(signals []types.KeywordSignal, n int) []types.KeywordSignal {
	ranked := make([]types.KeywordSignal, len(signals))
	copy(ranked, signals)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].QuickWin > ranked[j].QuickWin
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}
