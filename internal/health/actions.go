package health

import (
	"fmt"

	"github.com/jerilmartin/rankprobe/internal/keywords"
	"github.com/jerilmartin/rankprobe/internal/technical"
	"github.com/jerilmartin/rankprobe/internal/types"
)

// Action item priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Action item categories, one per pillar plus keywords.
const (
	CategoryTechnical   = "technical"
	CategoryPerformance = "performance"
	CategoryAuthority   = "authority"
	CategoryKeywords    = "keywords"
)

const (
	// maxKeywordActions bounds how many quick-win keywords become items.
	maxKeywordActions = 3
	// slowPerformanceMax is the Lighthouse performance score under which a
	// general performance item is raised.
	slowPerformanceMax = 50
)

// technicalActions maps a failed check to its recommendation.
var technicalActions = map[string]types.ActionItem{
	technical.CheckHTTPS: {
		Priority: PriorityHigh,
		Category: CategoryTechnical,
		Title:    "Serve the site over HTTPS",
	},
	technical.CheckRobots: {
		Priority: PriorityMedium,
		Category: CategoryTechnical,
		Title:    "Add a robots.txt file",
	},
	technical.CheckSitemap: {
		Priority: PriorityMedium,
		Category: CategoryTechnical,
		Title:    "Publish an XML sitemap",
	},
}

// technicalActionOrder fixes the emission order for failed checks.
var technicalActionOrder = []string{technical.CheckHTTPS, technical.CheckRobots, technical.CheckSitemap}

// ActionItems derives the prioritized recommendation list from failed
// checks, weak audit signals, and the top quick-win keywords.
func ActionItems(in Inputs, quickWins []types.KeywordSignal) []types.ActionItem {
	var items []types.ActionItem

	if in.Technical != nil {
		for _, name := range technicalActionOrder {
			check, ok := in.Technical.Checks[name]
			if !ok || check.Passed {
				continue
			}

			item := technicalActions[name]
			item.Detail = check.Detail
			items = append(items, item)
		}
	}

	items = append(items, performanceActions(in.Lighthouse)...)

	if in.Entity != nil && !in.Entity.Recognized {
		items = append(items, types.ActionItem{
			Priority: PriorityLow,
			Category: CategoryAuthority,
			Title:    "Build out the brand's public entity",
			Detail:   "the domain does not map to a recognized knowledge-graph entity yet",
		})
	}

	count := 0
	for _, signal := range quickWins {
		if signal.Priority != keywords.PriorityHigh {
			continue
		}
		if count == maxKeywordActions {
			break
		}
		count++

		items = append(items, types.ActionItem{
			Priority: PriorityHigh,
			Category: CategoryKeywords,
			Title:    fmt.Sprintf("Pursue the quick-win keyword %q", signal.Keyword),
			Detail:   quickWinDetail(signal),
		})
	}

	return items
}

// performanceActions raises items for weak audit signals.
func performanceActions(metrics *types.LighthouseMetrics) []types.ActionItem {
	if metrics == nil || !metrics.Available {
		return nil
	}

	var items []types.ActionItem

	if metrics.Performance < slowPerformanceMax {
		items = append(items, types.ActionItem{
			Priority: PriorityHigh,
			Category: CategoryPerformance,
			Title:    "Improve page load performance",
			Detail:   fmt.Sprintf("the Lighthouse performance score is %d out of 100", metrics.Performance),
		})
	}

	if !metrics.ViewportOK {
		items = append(items, types.ActionItem{
			Priority: PriorityHigh,
			Category: CategoryPerformance,
			Title:    "Add a responsive viewport meta tag",
			Detail:   "the page fails the mobile viewport audit",
		})
	}

	if metrics.LCPMillis >= lcpOkayMillis {
		items = append(items, types.ActionItem{
			Priority: PriorityMedium,
			Category: CategoryPerformance,
			Title:    "Reduce Largest Contentful Paint",
			Detail:   fmt.Sprintf("LCP is %.0fms; aim for under %dms", metrics.LCPMillis, lcpGoodMillis),
		})
	}

	if metrics.CLS >= clsOkay {
		items = append(items, types.ActionItem{
			Priority: PriorityMedium,
			Category: CategoryPerformance,
			Title:    "Stabilize layout shift",
			Detail:   fmt.Sprintf("CLS is %.2f; aim for under %.1f", metrics.CLS, clsGood),
		})
	}

	return items
}

// quickWinDetail summarizes why the keyword is worth pursuing.
func quickWinDetail(signal types.KeywordSignal) string {
	if signal.Position > 0 {
		return fmt.Sprintf("currently ranked %d, difficulty %s, quick-win score %d", signal.Position, signal.DifficultyLabel, signal.QuickWin)
	}

	return fmt.Sprintf("not ranked yet, difficulty %s, quick-win score %d", signal.DifficultyLabel, signal.QuickWin)
}
