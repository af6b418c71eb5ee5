package models

// BetSide represents the recommended side of a player-prop bet
type BetSide string

const (
	BetSideOver  BetSide = "OVER"
	BetSideUnder BetSide = "UNDER"
)

// BetCandidate is the scan orchestrator's output unit: one qualifying
// player-prop recommendation. Only emitted when a usable line and a
// positive-confidence signal both exist.
type BetCandidate struct {
	NBAPlayerID  int          `json:"player_id"`
	PlayerName   string       `json:"player"`
	TeamCode     string       `json:"team"`
	OpponentCode string       `json:"opponent"`
	GameID       string       `json:"game_id"`
	Market       StatCategory `json:"market"`
	Side         BetSide      `json:"bet_type"`

	Line      float64 `json:"line"`
	Odds      float64 `json:"odds"` // decimal odds for the recommended side
	Bookmaker string  `json:"bookmaker"`

	Projection  float64 `json:"projection"`
	Probability float64 `json:"probability"` // model probability of the recommended side
	EV          float64 `json:"ev"`          // probability*odds - 1
	Score       float64 `json:"score"`       // confidence score after availability scaling
	Tag         string  `json:"confidence"`

	InjuryStatus InjuryStatus `json:"injury_status"`
	Verdict      string       `json:"verdict,omitempty"` // opaque narrative annotation
}

// ExpectedValue computes the EV of a bet at the given decimal odds
func ExpectedValue(probability, decimalOdds float64) float64 {
	if decimalOdds <= 0 {
		return 0
	}
	return probability*decimalOdds - 1
}
