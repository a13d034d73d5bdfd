package keywords

import (
	"strings"

	"github.com/jerilmartin/rankprobe/internal/serp"
	"github.com/jerilmartin/rankprobe/internal/types"
)

// maxScore caps every additive score in this package.
const maxScore = 100

// Difficulty point values. The weights are fixed domain constants so scores
// stay comparable across scans; they are not rederived per target.
const (
	resultsOver100M = 100_000_000
	resultsOver10M  = 10_000_000
	resultsOver1M   = 1_000_000

	diffResultsHuge     = 30
	diffResultsLarge    = 20
	diffResultsModerate = 10
	diffResultsSmall    = 5
	diffFeaturedSnippet = 15
	diffKnowledgePanel  = 10
	diffLocalPack       = 10
	diffTwoAuthorities  = 25
	diffOneAuthority    = 15
	diffManyRelated     = 10

	authorityWindow = 3
	manyRelatedMin  = 8
)

// Difficulty label boundaries.
const (
	difficultyVeryHardMin = 70
	difficultyHardMin     = 50
	difficultyMediumMin   = 30

	LabelVeryHard = "Very Hard"
	LabelHard     = "Hard"
	LabelMedium   = "Medium"
	LabelEasy     = "Easy"
)

// Opportunity point values.
const (
	oppNoSnippet      = 25
	oppRankingTop10   = 15
	oppManyQuestions  = 20
	oppManyRelated    = 15
	oppLocalPack      = 20
	oppShopping       = 15
	oppImagePack      = 10
	oppVideoResults   = 10
	oppQuestionsMin   = 3
	oppRelatedMin     = 5
	oppTop10Threshold = 10
)

// Quick-win point values and priority boundaries.
const (
	quickLowDifficulty    = 40
	quickMediumDifficulty = 25
	quickHighDifficulty   = 10
	quickNearTop          = 30
	quickSecondPage       = 25
	quickAlreadyTop       = 10
	quickUnrankedEasy     = 20
	quickNoSnippet        = 15
	quickQuestionsShown   = 10
	quickManyRelated      = 5

	lowDifficultyMax    = 30
	mediumDifficultyMax = 50

	priorityHighMin   = 70
	priorityMediumMin = 50
	priorityLowMin    = 30

	PriorityHigh           = "High"
	PriorityMedium         = "Medium"
	PriorityLow            = "Low"
	PriorityNotRecommended = "Not Recommended"
)

// authorityDomains are sites whose presence in the top results signals an
// entrenched result page.
var authorityDomains = []string{
	"wikipedia.org",
	"amazon.com",
	"youtube.com",
	"facebook.com",
	"reddit.com",
	"linkedin.com",
	"instagram.com",
	"quora.com",
	"ebay.com",
	"walmart.com",
}

// Difficulty estimates how hard ranking for the keyword's result page is,
// from the competition volume, the features Google already answers the query
// with, and who holds the top spots.
func Difficulty(resp *serp.Response) int {
	score := resultsBucketPoints(resp.Features.TotalResults)

	if resp.Features.FeaturedSnippet {
		score += diffFeaturedSnippet
	}
	if resp.Features.KnowledgePanel {
		score += diffKnowledgePanel
	}
	if resp.Features.LocalPack {
		score += diffLocalPack
	}

	switch n := countAuthorityDomains(resp.Organic); {
	case n >= 2:
		score += diffTwoAuthorities
	case n == 1:
		score += diffOneAuthority
	}

	if resp.Features.RelatedSearches >= manyRelatedMin {
		score += diffManyRelated
	}

	return clampScore(score)
}

// DifficultyLabel buckets a difficulty score.
func DifficultyLabel(score int) string {
	switch {
	case score >= difficultyVeryHardMin:
		return LabelVeryHard
	case score >= difficultyHardMin:
		return LabelHard
	case score >= difficultyMediumMin:
		return LabelMedium
	default:
		return LabelEasy
	}
}

// Opportunity estimates the upside of pursuing the keyword given the
// target's current position and the features on its result page.
func Opportunity(resp *serp.Response, position int) int {
	score := 0

	if !resp.Features.FeaturedSnippet {
		score += oppNoSnippet
	} else if position >= 1 && position <= oppTop10Threshold {
		score += oppRankingTop10
	}

	if resp.Features.PeopleAlsoAsk >= oppQuestionsMin {
		score += oppManyQuestions
	}
	if resp.Features.RelatedSearches >= oppRelatedMin {
		score += oppManyRelated
	}
	if resp.Features.LocalPack {
		score += oppLocalPack
	}
	if resp.Features.Shopping {
		score += oppShopping
	}
	if resp.Features.ImagePack {
		score += oppImagePack
	}
	if resp.Features.VideoResults {
		score += oppVideoResults
	}

	return clampScore(score)
}

// QuickWin estimates how cheaply the target could improve for the keyword.
// Positions just off the first page score highest; a top-3 ranking is already
// strong and gets the smallest proximity bonus.
func QuickWin(resp *serp.Response, difficulty, position int) int {
	score := 0

	switch {
	case difficulty < lowDifficultyMax:
		score += quickLowDifficulty
	case difficulty < mediumDifficultyMax:
		score += quickMediumDifficulty
	default:
		score += quickHighDifficulty
	}

	switch {
	case position >= 4 && position <= 10:
		score += quickNearTop
	case position >= 11 && position <= 20:
		score += quickSecondPage
	case position >= 1 && position <= 3:
		score += quickAlreadyTop
	case position == 0 && difficulty < lowDifficultyMax:
		score += quickUnrankedEasy
	}

	if !resp.Features.FeaturedSnippet {
		score += quickNoSnippet
	}
	if resp.Features.PeopleAlsoAsk > 0 {
		score += quickQuestionsShown
	}
	if resp.Features.RelatedSearches >= oppRelatedMin {
		score += quickManyRelated
	}

	return clampScore(score)
}

// Priority buckets a quick-win score.
func Priority(score int) string {
	switch {
	case score >= priorityHighMin:
		return PriorityHigh
	case score >= priorityMediumMin:
		return PriorityMedium
	case score >= priorityLowMin:
		return PriorityLow
	default:
		return PriorityNotRecommended
	}
}

// buildSignal scores one keyword's result page end to end.
func buildSignal(keyword string, resp *serp.Response, position int) types.KeywordSignal {
	difficulty := Difficulty(resp)
	intent, confidence := ClassifyIntent(keyword, resp.Features)
	quickWin := QuickWin(resp, difficulty, position)

	return types.KeywordSignal{
		Keyword:         keyword,
		Position:        position,
		Difficulty:      difficulty,
		DifficultyLabel: DifficultyLabel(difficulty),
		Opportunity:     Opportunity(resp, position),
		QuickWin:        quickWin,
		Priority:        Priority(quickWin),
		Intent:          intent,
		Confidence:      confidence,
		Features:        resp.Features,
	}
}

func resultsBucketPoints(total int64) int {
	switch {
	case total > resultsOver100M:
		return diffResultsHuge
	case total > resultsOver10M:
		return diffResultsLarge
	case total > resultsOver1M:
		return diffResultsModerate
	default:
		return diffResultsSmall
	}
}

// countAuthorityDomains counts allowlisted authority sites holding one of the
// top organic spots.
func countAuthorityDomains(results []serp.Result) int {
	count := 0

	for i, result := range results {
		if i >= authorityWindow {
			break
		}
		if isAuthorityDomain(result.Domain) {
			count++
		}
	}

	return count
}

func isAuthorityDomain(host string) bool {
	for _, authority := range authorityDomains {
		if host == authority || strings.HasSuffix(host, "."+authority) {
			return true
		}
	}

	return false
}

func clampScore(score int) int {
	if score > maxScore {
		return maxScore
	}

	return score
}
