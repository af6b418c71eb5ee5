package scan

import (
	"math"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

// Parlay is a combination of candidate legs priced as one bet. Legs are
// treated as independent; correlated same-game legs are the caller's
// problem.
type Parlay struct {
	Legs         []models.BetCandidate `json:"legs"`
	CombinedOdds float64               `json:"combined_odds"`
	Probability  float64               `json:"combined_probability"`
	EV           float64               `json:"ev"`
}

// BuildParlay combines candidate legs into a single priced parlay.
// Legs without a positive price are rejected.
func BuildParlay(legs []models.BetCandidate) (*Parlay, error) {
	if len(legs) == 0 {
		return nil, models.ErrInsufficientData
	}

	odds := 1.0
	prob := 1.0
	for _, leg := range legs {
		if leg.Odds <= 0 {
			return nil, models.ErrNoLineAvailable
		}
		odds *= leg.Odds
		prob *= leg.Probability
	}

	return &Parlay{
		Legs:         legs,
		CombinedOdds: math.Round(odds*100) / 100,
		Probability:  math.Round(prob*10000) / 10000,
		EV:           math.Round(models.ExpectedValue(prob, odds)*10000) / 10000,
	}, nil
}
