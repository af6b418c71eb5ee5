// Package stats implements the moving-average engine over a player's
// game-log series. All functions take a most-recent-first series, the
// ordering the game-log providers return.
package stats

import "math"

// DefaultSpan is the default window span for weighted averages
const DefaultSpan = 20

// ShortEMAAlpha is the smoothing factor for the short-horizon EMA,
// deliberately higher than the long weighted average so that very recent
// hot or cold streaks show up
const ShortEMAAlpha = 0.3

// ShortEMAWindow bounds the short EMA to the most recent games
const ShortEMAWindow = 20

// ExponentialWMA applies exponential smoothing over the series in
// chronological order with alpha = 2/(span+1) and returns the final
// smoothed value. Empty series yields 0.
func ExponentialWMA(series []float64, span int) float64 {
	if len(series) == 0 {
		return 0
	}
	if span < 1 {
		span = 1
	}
	alpha := 2.0 / (float64(span) + 1.0)

	// Series arrives most-recent-first; walk it backwards to smooth in
	// chronological order.
	smoothed := series[len(series)-1]
	for i := len(series) - 2; i >= 0; i-- {
		smoothed = alpha*series[i] + (1-alpha)*smoothed
	}
	return smoothed
}

// LinearWMA computes a linearly recency-weighted mean over up to span most
// recent games: the newest game weights n, the oldest weights 1.
func LinearWMA(series []float64, span int) float64 {
	if len(series) == 0 {
		return 0
	}
	if span < 1 {
		span = 1
	}
	if len(series) < span {
		span = len(series)
	}

	var weighted, totalWeight float64
	for i := 0; i < span; i++ {
		weight := float64(span - i)
		weighted += series[i] * weight
		totalWeight += weight
	}
	return weighted / totalWeight
}

// ShortEMA runs the exponential recurrence with a fixed high alpha over
// only the most recent games, independent of the long weighted average
func ShortEMA(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	window := series
	if len(window) > ShortEMAWindow {
		window = window[:ShortEMAWindow]
	}

	smoothed := window[len(window)-1]
	for i := len(window) - 2; i >= 0; i-- {
		smoothed = ShortEMAAlpha*window[i] + (1-ShortEMAAlpha)*smoothed
	}
	return smoothed
}

// Mean computes the arithmetic mean. Empty series yields 0.
func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// StdDev computes the sample standard deviation. Series shorter than two
// games, and any non-finite result, yield 0.
func StdDev(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	mean := Mean(series)
	var sumSquares float64
	for _, v := range series {
		d := v - mean
		sumSquares += d * d
	}
	sd := math.Sqrt(sumSquares / float64(len(series)-1))
	if math.IsNaN(sd) || math.IsInf(sd, 0) {
		return 0
	}
	return sd
}
