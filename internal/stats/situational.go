package stats

import "github.com/Niwa-Yume/jimmy-ai-nba/internal/models"

// HeadToHeadAverage computes the mean of a category restricted to games
// against the given opponent. ok is false when no prior meeting exists, in
// which case the caller must fold the head-to-head blend weight back onto
// the season average.
func HeadToHeadAverage(entries []*models.GameLogEntry, category models.StatCategory, opponentCode string) (avg float64, ok bool) {
	var sum float64
	var count int
	for _, e := range entries {
		if e.VersusOpponent(opponentCode) {
			sum += e.Stat(category)
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// LocationAverage computes the mean of a category restricted to home or
// away games. ok is false when no qualifying game exists.
func LocationAverage(entries []*models.GameLogEntry, category models.StatCategory, home bool) (avg float64, ok bool) {
	var sum float64
	var count int
	for _, e := range entries {
		if e.IsHome() == home {
			sum += e.Stat(category)
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
