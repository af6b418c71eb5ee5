package projection

import "math"

// Confidence tags for scored bets
const (
	TagLock = "🔒 LOCK"
	TagPlay = "✅ PLAY"
	TagLean = "⚠️ LEAN"
	TagPass = "PASS"
	TagNA   = "N/A"
)

// ScoreInput carries everything the confidence scorer needs. The scorer
// is a pure function of this struct: identical inputs always produce the
// identical (score, tag) pair.
type ScoreInput struct {
	Projection      float64
	MarketLine      float64
	Volatility      float64
	RecentAverage   float64
	DefensiveFactor float64
	GameSpread      float64
}

// ConfidenceScore rates the quality of a bet from an additive point
// system starting at a neutral 50. A non-positive market line means no
// usable bet and scores 0 outright.
func ConfidenceScore(in ScoreInput) (float64, string) {
	if in.MarketLine <= 0 {
		return 0, TagNA
	}

	score := 50.0

	// Edge: distance between projection and line, relative to the line
	edge := (in.Projection - in.MarketLine) / in.MarketLine
	absEdge := math.Abs(edge)
	switch {
	case absEdge > 0.15:
		score += 15
	case absEdge > 0.10:
		score += 15
	case absEdge > 0.05:
		score += 10
	default:
		score -= 5 // margin too thin to trust
	}

	// Consistency: coefficient of variation against the recent average
	if in.RecentAverage > 0 {
		cv := in.Volatility / in.RecentAverage
		switch {
		case cv < 0.15:
			score += 15
		case cv < 0.20:
			score += 10
		case cv > 0.35:
			score -= 10 // near-disqualifying instability
		case cv > 0.25:
			score -= 5
		}
	}

	// Matchup: defense-vs-position factor
	if in.DefensiveFactor >= 1.08 {
		score += 15
	} else if in.DefensiveFactor <= 0.92 {
		score -= 10
	}

	// Blowout risk: lopsided spreads mean garbage-time rest for stars
	spread := math.Abs(in.GameSpread)
	if spread >= 14 {
		score -= 15
	} else if spread >= 10 {
		score -= 5
	}

	return math.Round(score*10) / 10, classify(score)
}

func classify(score float64) string {
	switch {
	case score >= 80:
		return TagLock
	case score >= 65:
		return TagPlay
	case score >= 50:
		return TagLean
	default:
		return TagPass
	}
}

// ApplyAvailability scales a confidence score by the player's
// availability multiplier (0 for OUT, fractions for game-time decisions).
// The tag is recomputed from the scaled score; a zeroed score passes.
func ApplyAvailability(score float64, availability float64) (float64, string) {
	if availability < 0 {
		availability = 0
	}
	scaled := math.Round(score*availability*10) / 10
	if scaled <= 0 {
		return 0, TagPass
	}
	return scaled, classify(scaled)
}
