// Package health folds the probe outputs of a scan into the composite
// 0-100 health score and its four pillars. Scoring is pure: a probe that
// never ran contributes nothing, and no input combination is an error.
package health

import (
	"math"

	"github.com/jerilmartin/rankprobe/internal/types"
)

// pillarMax caps each pillar's contribution.
const pillarMax = 25

// Authority pillar points.
const (
	ageTenYears   = 15
	ageFiveYears  = 12
	ageThreeYears = 9
	ageOneYear    = 6
	ageUnderYear  = 3
	entityKnown   = 10
)

// Performance pillar points. The raw Lighthouse performance score scales
// into performanceShare points; the rest comes from the viewport audit and
// Core Web Vitals thresholds.
const (
	performanceShare = 12
	viewportPoints   = 5

	lcpGoodMillis = 2500
	lcpOkayMillis = 4000
	lcpGoodPoints = 3
	lcpOkayPoints = 1

	clsGood       = 0.1
	clsOkay       = 0.25
	clsGoodPoints = 3
	clsOkayPoints = 1

	fcpGoodMillis = 1800
	fcpOkayMillis = 3000
	fcpGoodPoints = 2
	fcpOkayPoints = 1
)

// onPageShare scales the Lighthouse SEO category into its pillar.
const onPageShare = 25

// Inputs collects the probe outputs the score is derived from. Every field
// may be nil.
type Inputs struct {
	Technical  *types.TechnicalReport
	Lighthouse *types.LighthouseMetrics
	DomainAge  *types.DomainAge
	Entity     *types.EntityVerification
}

// Score computes the pillar breakdown for one scan. The health score is the
// breakdown's total.
func Score(in Inputs) types.ScoreBreakdown {
	return types.ScoreBreakdown{
		Technical:   technicalPillar(in.Technical),
		OnPageSEO:   onPageSEOPillar(in.Lighthouse),
		Authority:   authorityPillar(in.DomainAge, in.Entity),
		Performance: performancePillar(in.Lighthouse),
	}
}

// technicalPillar passes the checker score through, clamped to the pillar
// range.
func technicalPillar(report *types.TechnicalReport) int {
	if report == nil {
		return 0
	}

	return clampPillar(report.Score)
}

// onPageSEOPillar scales the Lighthouse SEO category score into the pillar.
func onPageSEOPillar(metrics *types.LighthouseMetrics) int {
	if metrics == nil || !metrics.Available {
		return 0
	}

	return clampPillar(int(math.Round(float64(metrics.SEO) * onPageShare / 100)))
}

// authorityPillar combines domain age with entity recognition. The backlink
// signal is reserved and contributes nothing yet.
func authorityPillar(age *types.DomainAge, entity *types.EntityVerification) int {
	score := agePoints(age)

	if entity != nil && entity.Recognized {
		score += entityKnown
	}

	return clampPillar(score)
}

// agePoints buckets the domain's age in years. An unresolved age scores 0,
// a known age under a year still scores a little.
func agePoints(age *types.DomainAge) int {
	if age == nil || age.Years == nil {
		return 0
	}

	switch years := *age.Years; {
	case years >= 10:
		return ageTenYears
	case years >= 5:
		return ageFiveYears
	case years >= 3:
		return ageThreeYears
	case years >= 1:
		return ageOneYear
	default:
		return ageUnderYear
	}
}

// performancePillar combines the scaled raw performance score, the viewport
// audit, and Core Web Vitals threshold bonuses.
func performancePillar(metrics *types.LighthouseMetrics) int {
	if metrics == nil || !metrics.Available {
		return 0
	}

	score := int(math.Round(float64(metrics.Performance) * performanceShare / 100))

	if metrics.ViewportOK {
		score += viewportPoints
	}

	if metrics.LCPMillis > 0 {
		switch {
		case metrics.LCPMillis < lcpGoodMillis:
			score += lcpGoodPoints
		case metrics.LCPMillis < lcpOkayMillis:
			score += lcpOkayPoints
		}
	}

	switch {
	case metrics.CLS < clsGood:
		score += clsGoodPoints
	case metrics.CLS < clsOkay:
		score += clsOkayPoints
	}

	if metrics.FCPMillis > 0 {
		switch {
		case metrics.FCPMillis < fcpGoodMillis:
			score += fcpGoodPoints
		case metrics.FCPMillis < fcpOkayMillis:
			score += fcpOkayPoints
		}
	}

	return clampPillar(score)
}

func clampPillar(score int) int {
	if score < 0 {
		return 0
	}
	if score > pillarMax {
		return pillarMax
	}

	return score
}
