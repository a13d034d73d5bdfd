package keywords

import (
	"sort"
	"strings"

	"github.com/jerilmartin/rankprobe/internal/serp"
	"github.com/jerilmartin/rankprobe/internal/types"
)

const (
	// top10Window bounds the organic positions counted as competing.
	top10Window = 10
	// maxRankedCompetitors caps the reported competitor ranking.
	maxRankedCompetitors = 10
)

// contentPlatforms marks domains that compete on content volume rather than
// as direct businesses.
var contentPlatforms = []string{
	"wikipedia", "youtube", "reddit", "medium", "quora",
	"pinterest", "facebook", "linkedin", "instagram",
}

// Gap is the competitor picture aggregated across every sampled keyword.
type Gap struct {
	// Competitors splits competing domains into direct businesses and
	// content platforms
	Competitors types.SERPCompetitors
	// Top ranks competitor domains by how often they held a top-10 spot
	Top []types.CompetitorRank
	// Missed lists keywords where the target never appeared, tagged with
	// their difficulty bucket
	Missed []types.MissedKeyword
}

// AnalyzeGap aggregates competitor visibility across the sampled keywords.
// The target's own results are excluded from the competitor counts.
func AnalyzeGap(signals []types.KeywordSignal, pages map[string]*serp.Response, matcher *Matcher) Gap {
	appearances := make(map[string]int)

	for _, signal := range signals {
		resp, ok := pages[signal.Keyword]
		if !ok {
			continue
		}

		for _, result := range resp.Organic {
			if result.Position > top10Window {
				continue
			}
			if result.Domain == "" || matcher.Matches(result.Domain) {
				continue
			}
			appearances[result.Domain]++
		}
	}

	gap := Gap{Top: rankCompetitors(appearances)}

	for _, competitor := range gap.Top {
		if isContentPlatform(competitor.Domain) {
			gap.Competitors.Content = append(gap.Competitors.Content, competitor.Domain)
		} else {
			gap.Competitors.Direct = append(gap.Competitors.Direct, competitor.Domain)
		}
	}

	for _, signal := range signals {
		if signal.Position != 0 {
			continue
		}
		gap.Missed = append(gap.Missed, types.MissedKeyword{
			Keyword:    signal.Keyword,
			Difficulty: signal.DifficultyLabel,
		})
	}

	return gap
}

// rankCompetitors orders domains by appearance count, most visible first,
// ties broken alphabetically.
func rankCompetitors(appearances map[string]int) []types.CompetitorRank {
	ranked := make([]types.CompetitorRank, 0, len(appearances))
	for competitor, count := range appearances {
		ranked = append(ranked, types.CompetitorRank{Domain: competitor, Appearances: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Appearances != ranked[j].Appearances {
			return ranked[i].Appearances > ranked[j].Appearances
		}
		return ranked[i].Domain < ranked[j].Domain
	})

	if len(ranked) > maxRankedCompetitors {
		ranked = ranked[:maxRankedCompetitors]
	}

	return ranked
}

func isContentPlatform(host string) bool {
	for _, platform := range contentPlatforms {
		if strings.Contains(host, platform) {
			return true
		}
	}

	return false
}
