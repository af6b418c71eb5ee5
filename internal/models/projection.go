package models

// Milestone is one threshold on the probability ladder, e.g. "25+ points
// with 62.3% probability"
type Milestone struct {
	Label       string  `json:"milestone"` // e.g. "25+"
	Value       int     `json:"value"`
	Probability float64 `json:"probability"` // percent, rounded to 0.1
	Tag         string  `json:"label"`       // confidence band
}

// Projection is the computed output for one (player, category, game)
// triple. Ephemeral: recomputed per request, never persisted.
type Projection struct {
	Category StatCategory `json:"category"`

	// Final adjusted value and the components that produced it
	Value          float64 `json:"projection"`
	RawValue       float64 `json:"raw_projection"`
	RecentAverage  float64 `json:"recent_avg"` // weighted moving average
	ShortEMA       float64 `json:"ema"`
	SeasonAverage  float64 `json:"season_avg"`
	HeadToHeadAvg  *float64 `json:"h2h_avg"` // nil when no prior meeting
	LocationAvg    *float64 `json:"loc_avg"` // nil when no home/away sample

	// Contextual multipliers
	OffensiveBoost  float64 `json:"offensive_boost"`
	DefensiveFactor float64 `json:"defensive_factor"`
	PaceFactor      float64 `json:"pace_factor"`

	// Volatility and risk
	Volatility float64 `json:"volatility"`
	RiskLabel  string  `json:"risk_level"`

	// Bookmaker context, nil/empty when no usable line exists
	Line       *float64 `json:"betting_line"`
	OverOdds   *float64 `json:"betting_odds"`
	UnderOdds  *float64 `json:"under_odds"`
	Bookmaker  string   `json:"bookmaker"`

	SuccessRate    float64 `json:"success_rate"` // fraction of past games above the line
	ConfidenceTier string  `json:"confidence"`

	Milestones []Milestone `json:"milestones"`

	// Narrative context
	MissingStars     []string `json:"missing_stars"`
	MissingDefenders []string `json:"missing_defenders"`
	DefenseRating    string   `json:"defense_rating"`
	DefenseNote      string   `json:"defense_note"`
	DefenseOpportunity bool   `json:"defense_opportunity"`
}

// Edge returns the relative distance between the projection and the
// bookmaker line, or 0 when no line exists
func (p *Projection) Edge() float64 {
	if p.Line == nil || *p.Line <= 0 {
		return 0
	}
	return (p.Value - *p.Line) / *p.Line
}
