package keywords

import (
	"math"
	"sort"

	"github.com/jerilmartin/rankprobe/internal/types"
)

// deviceGapThreshold is the position difference beyond which desktop and
// mobile rankings are no longer considered consistent.
const deviceGapThreshold = 5

// buildRegional summarizes a keyword's positions across locations. Locations
// where the target is not ranked carry a 0 and are excluded from the average
// and the variance.
func buildRegional(keyword string, positions map[string]int) (types.RegionalAnalysis, bool) {
	if len(positions) == 0 {
		return types.RegionalAnalysis{}, false
	}

	analysis := types.RegionalAnalysis{Keyword: keyword, Positions: positions}

	locations := make([]string, 0, len(positions))
	for location := range positions {
		locations = append(locations, location)
	}
	sort.Strings(locations)

	sum, ranked := 0, 0
	best, worst := 0, 0

	for _, location := range locations {
		position := positions[location]
		if position == 0 {
			continue
		}

		sum += position
		ranked++

		if best == 0 || position < best {
			best = position
			analysis.BestLocation = location
		}
		if position > worst {
			worst = position
			analysis.WorstLocation = location
		}
	}

	if ranked > 0 {
		analysis.AveragePosition = int(math.Round(float64(sum) / float64(ranked)))
		analysis.Variance = worst - best
	}

	return analysis, true
}

// buildDeviceComparison reads the gap between desktop and mobile rankings.
// A positive difference means the mobile ranking is worse.
func buildDeviceComparison(keyword string, desktop, mobile int) (types.DeviceComparison, bool) {
	if desktop == 0 && mobile == 0 {
		return types.DeviceComparison{}, false
	}

	comparison := types.DeviceComparison{
		Keyword:         keyword,
		DesktopPosition: desktop,
		MobilePosition:  mobile,
		Difference:      mobile - desktop,
	}

	switch {
	case mobile == 0:
		comparison.Analysis = "not ranking on mobile"
		comparison.Recommendation = "check mobile indexing and page experience; the keyword only ranks on desktop"
	case desktop == 0:
		comparison.Analysis = "not ranking on desktop"
		comparison.Recommendation = "review desktop content depth; the keyword only ranks on mobile"
	case comparison.Difference > deviceGapThreshold:
		comparison.Analysis = "ranking lower on mobile"
		comparison.Recommendation = "prioritize mobile optimization: page speed, responsive layout, and tap targets"
	case comparison.Difference < -deviceGapThreshold:
		comparison.Analysis = "ranking lower on desktop"
		comparison.Recommendation = "review the desktop experience; content and layout may be underperforming there"
	default:
		comparison.Analysis = "consistent across devices"
		comparison.Recommendation = "keep the current experience on both devices"
	}

	return comparison, true
}
