// Package types holds the shared result shapes produced by the probes and
// folded into a ScanResult by the health aggregator.
package types

import "time"

// TechnicalCheck is the outcome of a single technical probe.
type TechnicalCheck struct {
	// Passed indicates whether the probe succeeded within its timeout
	Passed bool `json:"passed"`
	// Points is the fixed score contribution when the check passes
	Points int `json:"points"`
	// Detail is a short human-readable note about the outcome
	Detail string `json:"detail,omitempty"`
}

// DNSRecords holds unscored DNS context gathered alongside the technical checks.
type DNSRecords struct {
	// A lists IPv4 addresses resolved for the host
	A []string `json:"a,omitempty"`
	// AAAA lists IPv6 addresses resolved for the host
	AAAA []string `json:"aaaa,omitempty"`
	// NS lists authoritative nameservers
	NS []string `json:"ns,omitempty"`
	// MX lists mail exchangers
	MX []string `json:"mx,omitempty"`
}

// TechnicalReport aggregates the crawlability checks for a site.
type TechnicalReport struct {
	// Score is the sum of points from passed checks
	Score int `json:"score"`
	// MaxScore is the technical score ceiling
	MaxScore int `json:"max_score"`
	// Checks maps check name (https, robots_txt, sitemap) to its outcome
	Checks map[string]TechnicalCheck `json:"checks"`
	// Summary is a one-line description of the overall outcome
	Summary string `json:"summary"`
	// DNS carries resolved record context; informational only, never scored
	DNS *DNSRecords `json:"dns,omitempty"`
}

// LighthouseMetrics holds the performance audit extract.
type LighthouseMetrics struct {
	// Available is false when the audit could not be performed at all
	Available bool `json:"available"`
	// Strategy is the profile that produced the metrics (mobile or desktop)
	Strategy string `json:"strategy,omitempty"`
	// Performance is the 0-100 performance category score
	Performance int `json:"performance"`
	// Accessibility is the 0-100 accessibility category score
	Accessibility int `json:"accessibility"`
	// SEO is the 0-100 SEO category score
	SEO int `json:"seo"`
	// LCPMillis is Largest Contentful Paint in milliseconds
	LCPMillis float64 `json:"lcp_ms"`
	// CLS is Cumulative Layout Shift
	CLS float64 `json:"cls"`
	// FCPMillis is First Contentful Paint in milliseconds
	FCPMillis float64 `json:"fcp_ms"`
	// ViewportOK reports whether the mobile viewport audit passed
	ViewportOK bool `json:"viewport_ok"`
	// Detail carries the reason when the audit is unavailable
	Detail string `json:"detail,omitempty"`
}

// DomainAge holds the registration data resolved for a domain.
type DomainAge struct {
	// Years since registration, nil when no registration date was parsed
	Years *int `json:"years"`
	// Created is the registration date when one was parsed
	Created *time.Time `json:"created,omitempty"`
	// Expires is the registration expiry when one was parsed
	Expires *time.Time `json:"expires,omitempty"`
	// Registrar is the registrar name when one was parsed
	Registrar string `json:"registrar,omitempty"`
	// Source names the resolution tier that produced the data
	Source string `json:"source,omitempty"`
}

// EntityVerification is the knowledge-graph recognition outcome for a brand.
type EntityVerification struct {
	// Recognized indicates the domain maps to a known real-world entity
	Recognized bool `json:"recognized"`
	// Name is the entity's canonical name
	Name string `json:"name,omitempty"`
	// Types lists the entity type labels
	Types []string `json:"types,omitempty"`
	// Score is the provider's result score
	Score float64 `json:"score,omitempty"`
	// Description is a short entity description
	Description string `json:"description,omitempty"`
}

// SalientEntity is one entity weighted by its importance within page text.
type SalientEntity struct {
	// Entity is the entity name
	Entity string `json:"entity"`
	// Weight is the salience in [0,1]
	Weight float64 `json:"weight"`
}

// Technology is a platform fingerprint detected on the target page.
type Technology struct {
	// Name is the detected technology name
	Name string `json:"name"`
	// Categories lists the fingerprint categories (CMS, analytics, ...)
	Categories []string `json:"categories,omitempty"`
}

// ScoreBreakdown splits the health score into its four pillars, each 0-25.
type ScoreBreakdown struct {
	Technical   int `json:"technical"`
	OnPageSEO   int `json:"on_page_seo"`
	Authority   int `json:"authority"`
	Performance int `json:"performance"`
}

// Total returns the sum of the pillar scores.
func (b ScoreBreakdown) Total() int {
	return b.Technical + b.OnPageSEO + b.Authority + b.Performance
}

// SERPFeatureSummary records which result-page features were present for a keyword.
type SERPFeatureSummary struct {
	// TotalResults is the provider-reported total result count
	TotalResults int64 `json:"total_results"`
	// FeaturedSnippet indicates a featured snippet owns position zero
	FeaturedSnippet bool `json:"featured_snippet"`
	// KnowledgePanel indicates a knowledge panel is shown
	KnowledgePanel bool `json:"knowledge_panel"`
	// LocalPack indicates a local map pack is shown
	LocalPack bool `json:"local_pack"`
	// Shopping indicates shopping results are shown
	Shopping bool `json:"shopping_results"`
	// ImagePack indicates an image pack is shown
	ImagePack bool `json:"image_pack"`
	// VideoResults indicates video results are shown
	VideoResults bool `json:"video_results"`
	// PeopleAlsoAsk is the number of People-Also-Ask entries
	PeopleAlsoAsk int `json:"people_also_ask"`
	// RelatedSearches is the number of related search suggestions
	RelatedSearches int `json:"related_searches"`
}

// KeywordSignal is the scored intelligence for one keyword within one scan.
// Signals live only inside the ScanResult they were computed for.
type KeywordSignal struct {
	// Keyword is the phrase that was looked up
	Keyword string `json:"keyword"`
	// Position is the target domain's organic position, 0 when not ranked
	Position int `json:"position,omitempty"`
	// Difficulty is the 0-100 ranking difficulty estimate
	Difficulty int `json:"difficulty"`
	// DifficultyLabel buckets the difficulty (Easy/Medium/Hard/Very Hard)
	DifficultyLabel string `json:"difficulty_label"`
	// Opportunity is the 0-100 opportunity estimate
	Opportunity int `json:"opportunity_score"`
	// QuickWin is the 0-100 quick-win estimate
	QuickWin int `json:"quick_win_score"`
	// Priority buckets the quick-win score (High/Medium/Low/Not Recommended)
	Priority string `json:"priority"`
	// Intent is the dominant search intent classification
	Intent string `json:"intent"`
	// Confidence is the 0-100 intent confidence
	Confidence int `json:"confidence"`
	// Features summarizes the SERP features observed for the keyword
	Features SERPFeatureSummary `json:"serp_features"`
}

// SampledPosition is one observed ranking for the target domain.
type SampledPosition struct {
	Keyword  string `json:"keyword"`
	Position int    `json:"position"`
}

// SERPCompetitors splits competing domains by kind.
type SERPCompetitors struct {
	// Direct lists competing business domains
	Direct []string `json:"direct"`
	// Content lists content platforms (encyclopedias, video, forums)
	Content []string `json:"content"`
}

// CompetitorRank is a competitor domain ranked by top-10 appearances.
type CompetitorRank struct {
	Domain      string `json:"domain"`
	Appearances int    `json:"appearances"`
}

// MissedKeyword is a batch keyword where the target domain never appeared.
type MissedKeyword struct {
	Keyword    string `json:"keyword"`
	Difficulty string `json:"difficulty"`
}

// SuggestedKeyword pairs a suggestion with its classified intent.
type SuggestedKeyword struct {
	Word   string `json:"word"`
	Intent string `json:"intent"`
}

// SuggestionGroup is a category of suggested keywords.
type SuggestionGroup struct {
	Category string             `json:"category"`
	Keywords []SuggestedKeyword `json:"keywords"`
}

// RegionalAnalysis compares a keyword's rankings across locations.
type RegionalAnalysis struct {
	// Keyword is the phrase that was compared
	Keyword string `json:"keyword"`
	// Positions maps location name to position, 0 when not ranked there
	Positions map[string]int `json:"positions"`
	// AveragePosition is the rounded mean over locations where ranked
	AveragePosition int `json:"average_position"`
	// Variance is max minus min position over locations where ranked
	Variance int `json:"variance"`
	// BestLocation is the location with the lowest ranked position
	BestLocation string `json:"best_location,omitempty"`
	// WorstLocation is the location with the highest ranked position
	WorstLocation string `json:"worst_location,omitempty"`
}

// DeviceComparison compares desktop and mobile rankings for a keyword.
type DeviceComparison struct {
	// Keyword is the phrase that was compared
	Keyword string `json:"keyword"`
	// DesktopPosition is the desktop ranking, 0 when not ranked
	DesktopPosition int `json:"desktop_position"`
	// MobilePosition is the mobile ranking, 0 when not ranked
	MobilePosition int `json:"mobile_position"`
	// Difference is mobile minus desktop; positive means worse on mobile
	Difference int `json:"difference"`
	// Analysis is the qualitative read of the difference
	Analysis string `json:"analysis"`
	// Recommendation is the suggested follow-up
	Recommendation string `json:"recommendation"`
}

// CTRAnalysis estimates click-through potential against top competitors.
type CTRAnalysis struct {
	// Keyword is the phrase that was analyzed
	Keyword string `json:"keyword"`
	// Score is the 0-100 click-through potential
	Score int `json:"score"`
	// TitleLength is the target result's title length in characters
	TitleLength int `json:"title_length"`
	// DescriptionLength is the target result's description length in characters
	DescriptionLength int `json:"description_length"`
	// PowerWords counts persuasive words in the target title and description
	PowerWords int `json:"power_words"`
	// Flags describes each gap found against the top-3 competitor average
	Flags []string `json:"flags,omitempty"`
}

// KeywordCluster groups observed keywords that share a theme.
type KeywordCluster struct {
	Theme         string   `json:"theme"`
	Keywords      []string `json:"keywords"`
	AvgDifficulty int      `json:"avg_difficulty"`
}

// ActionItem is one prioritized recommendation derived from the scan.
type ActionItem struct {
	// Priority is high, medium, or low
	Priority string `json:"priority"`
	// Category names the pillar the item belongs to
	Category string `json:"category"`
	// Title is the short imperative recommendation
	Title string `json:"title"`
	// Detail explains the finding behind the recommendation
	Detail string `json:"detail,omitempty"`
}

// ScanResult is the aggregate assessment persisted on a completed scan.
type ScanResult struct {
	// Domain is the registrable domain that was assessed
	Domain string `json:"domain"`
	// ScannedAt is when aggregation finished
	ScannedAt time.Time `json:"scanned_at"`
	// HealthScore is the 0-100 composite; always equals ScoreBreakdown.Total()
	HealthScore int `json:"health_score"`
	// ScoreBreakdown splits the health score into its pillars
	ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
	// Technical is the crawlability report, nil when the probe never ran
	Technical *TechnicalReport `json:"technical,omitempty"`
	// Lighthouse is the performance audit extract
	Lighthouse *LighthouseMetrics `json:"lighthouse_metrics,omitempty"`
	// DomainAge is the registration data resolved for the domain
	DomainAge *DomainAge `json:"domain_age,omitempty"`
	// EntityVerification is the knowledge-graph recognition outcome
	EntityVerification *EntityVerification `json:"entity_verification,omitempty"`
	// ContentSalience lists the top entities weighted by page salience
	ContentSalience []SalientEntity `json:"content_salience,omitempty"`
	// TechStack lists platform fingerprints detected on the page
	TechStack []Technology `json:"tech_stack,omitempty"`
	// ObservedKeywords lists the keywords sampled for this scan
	ObservedKeywords []string `json:"observed_keywords"`
	// SampledPositions lists rankings observed for the target domain
	SampledPositions []SampledPosition `json:"sampled_positions"`
	// SERPCompetitors splits competing domains by kind
	SERPCompetitors SERPCompetitors `json:"serp_competitors"`
	// TopCompetitors ranks competitor domains by top-10 appearances
	TopCompetitors []CompetitorRank `json:"top_competitors,omitempty"`
	// MissedKeywords lists keywords where the domain never appeared
	MissedKeywords []MissedKeyword `json:"missed_keywords,omitempty"`
	// SuggestedKeywords groups keyword suggestions by category
	SuggestedKeywords []SuggestionGroup `json:"suggested_keywords,omitempty"`
	// KeywordSignals carries the full per-keyword intelligence
	KeywordSignals []KeywordSignal `json:"keyword_signals,omitempty"`
	// QuickWins lists signals with a High or Medium quick-win priority
	QuickWins []KeywordSignal `json:"quick_wins"`
	// HighOpportunityKeywords lists signals above the opportunity threshold
	HighOpportunityKeywords []KeywordSignal `json:"high_opportunity_keywords"`
	// RegionalAnalysis compares rankings across locations
	RegionalAnalysis []RegionalAnalysis `json:"regional_analysis,omitempty"`
	// DeviceComparison compares desktop and mobile rankings
	DeviceComparison []DeviceComparison `json:"device_comparison,omitempty"`
	// CTRAnalysis estimates click-through potential per keyword
	CTRAnalysis []CTRAnalysis `json:"ctr_analysis,omitempty"`
	// KeywordClusters groups observed keywords by theme
	KeywordClusters []KeywordCluster `json:"keyword_clusters,omitempty"`
	// ActionItems lists prioritized recommendations
	ActionItems []ActionItem `json:"action_items"`
}
