// Package projection implements the core of the prediction engine: the
// blended projection composer, the Gaussian milestone-probability model,
// and the confidence scorer that turns a projection/line pair into a
// ranked betting signal.
package projection

import (
	"fmt"
	"math"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

// DefaultVolatilityRatio substitutes the standard deviation when a
// player's volatility is zero or unknown, to avoid a degenerate
// distribution in the milestone ladder
const DefaultVolatilityRatio = 0.25

// NormalCDF is the cumulative distribution function of the normal law:
// the probability that the variable falls at or below x. A degenerate
// standard deviation (zero, NaN or infinite) collapses the distribution
// to a step function at the mean.
func NormalCDF(x, mean, stdDev float64) float64 {
	if stdDev == 0 || math.IsNaN(stdDev) || math.IsInf(stdDev, 0) {
		if x < mean {
			return 0.0
		}
		return 1.0
	}
	z := (x - mean) / (stdDev * math.Sqrt2)
	return 0.5 * (1 + math.Erf(z))
}

// OverProbability returns P(X > line) for the continuous model. Callers
// converting to a discrete "at least n" reading should query at half
// integer offsets (line-0.5 / line+0.5) for the continuity correction.
func OverProbability(line, mean, stdDev float64) float64 {
	return 1 - NormalCDF(line, mean, stdDev)
}

// milestoneThresholds builds the category-specific ascending threshold
// ladder around the projection
func milestoneThresholds(proj float64, category models.StatCategory) []int {
	switch category {
	case models.StatPoints:
		// Multiples of 5 spanning roughly projection±10, floor 10
		start := int(proj) - 10
		if start < 10 {
			start = 10
		}
		start -= start % 5
		var out []int
		for m := start; m < int(proj)+15; m += 5 {
			out = append(out, m)
		}
		return out
	case models.StatRebounds, models.StatAssists:
		// Multiples of 2 spanning projection-4 .. projection+8, floor 2
		start := int(proj) - 4
		if start < 2 {
			start = 2
		}
		start -= start % 2
		var out []int
		for m := start; m < int(proj)+8; m += 2 {
			out = append(out, m)
		}
		return out
	case models.StatThreePointersMade:
		return []int{1, 2, 3, 4, 5, 6}
	default: // steals, blocks
		return []int{1, 2, 3}
	}
}

func milestoneTag(probPercent float64) string {
	switch {
	case probPercent >= 90:
		return "🔒 Safe"
	case probPercent >= 70:
		return "✅ Probable"
	case probPercent >= 50:
		return "⚖️ 50/50"
	case probPercent >= 30:
		return "⚠️ Risqué"
	default:
		return "🔥 Jackpot"
	}
}

// MilestoneLadder computes the discrete threshold ladder for a projection:
// for each category-specific threshold m, P(X >= m) under the
// continuity-corrected normal model. Thresholds whose probability falls
// outside (5%, 99.9%] are dropped as uninformative. The result is sorted
// ascending by threshold.
func MilestoneLadder(proj, stdDev float64, category models.StatCategory) []models.Milestone {
	if stdDev <= 0 || math.IsNaN(stdDev) {
		stdDev = proj * DefaultVolatilityRatio
	}

	var ladder []models.Milestone
	for _, m := range milestoneThresholds(proj, category) {
		if m <= 0 {
			continue
		}
		prob := OverProbability(float64(m)-0.5, proj, stdDev)
		probPercent := math.Round(prob*1000) / 10

		if probPercent < 5 || probPercent > 99.9 {
			continue
		}
		ladder = append(ladder, models.Milestone{
			Label:       fmt.Sprintf("%d+", m),
			Value:       m,
			Probability: probPercent,
			Tag:         milestoneTag(probPercent),
		})
	}
	// milestoneThresholds generates ascending values, so the ladder is
	// already sorted.
	return ladder
}
