package models

import "time"

// BettingLine represents one bookmaker player-prop line, as fetched from
// the odds provider. Expired lines must be treated as absent.
type BettingLine struct {
	Market     StatCategory  `json:"market"`
	Line       float64       `json:"line"`
	OverPrice  *float64      `json:"over_price"`  // decimal odds, nil if not offered
	UnderPrice *float64      `json:"under_price"` // decimal odds, nil if not offered
	Bookmaker  string        `json:"bookmaker"`
	FetchedAt  time.Time     `json:"fetched_at"`
	TTL        time.Duration `json:"-"`
}

// IsExpired reports whether the line has outlived its validity window
func (l *BettingLine) IsExpired(now time.Time) bool {
	if l.TTL <= 0 {
		return false
	}
	return now.After(l.FetchedAt.Add(l.TTL))
}

// Usable reports whether the line can back a recommendation: a positive
// line value that has not gone stale
func (l *BettingLine) Usable(now time.Time) bool {
	return l != nil && l.Line > 0 && !l.IsExpired(now)
}

// BestPrice returns the decimal odds for the given side, or 0 if the
// bookmaker does not price that side
func (l *BettingLine) BestPrice(side BetSide) float64 {
	var p *float64
	switch side {
	case BetSideOver:
		p = l.OverPrice
	case BetSideUnder:
		p = l.UnderPrice
	}
	if p == nil {
		return 0
	}
	return *p
}
