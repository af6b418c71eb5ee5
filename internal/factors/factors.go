package factors

import (
	"fmt"
	"strings"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

// CategoryAdjustments holds per-category values keyed by statistical
// market. Only points, rebounds and assists carry contextual adjustments;
// the remaining markets stay neutral.
type CategoryAdjustments struct {
	Points   float64
	Rebounds float64
	Assists  float64
}

// For returns the adjustment for the given category, 0 for markets the
// defensive model does not cover
func (a CategoryAdjustments) For(category models.StatCategory) float64 {
	switch category {
	case models.StatPoints:
		return a.Points
	case models.StatRebounds:
		return a.Rebounds
	case models.StatAssists:
		return a.Assists
	default:
		return 0
	}
}

// Multipliers holds per-category multiplicative factors, neutral at 1.0
type Multipliers struct {
	Points   float64
	Rebounds float64
	Assists  float64
}

// NeutralMultipliers returns the identity multiplier set
func NeutralMultipliers() Multipliers {
	return Multipliers{Points: 1.0, Rebounds: 1.0, Assists: 1.0}
}

// For returns the multiplier for the given category, 1.0 for markets the
// usage model does not cover
func (m Multipliers) For(category models.StatCategory) float64 {
	switch category {
	case models.StatPoints:
		return m.Points
	case models.StatRebounds:
		return m.Rebounds
	case models.StatAssists:
		return m.Assists
	default:
		return 1.0
	}
}

// PaceFactor returns the relative possessions multiplier for a team.
// Unknown team codes are neutral.
func PaceFactor(teamCode string) float64 {
	if pace, ok := paceRatings[teamCode]; ok {
		return pace
	}
	return 1.0
}

// NormalizePosition reduces a raw position descriptor (e.g. "G-F",
// "Forward-Center", "PG") to a primary position class. Unrecognized
// descriptors default to shooting guard.
func NormalizePosition(position string) PositionClass {
	pos := position
	if idx := strings.Index(pos, "-"); idx >= 0 {
		pos = pos[:idx]
	}
	switch PositionClass(pos) {
	case PointGuard, ShootingGuard, SmallForward, PowerForward, Center:
		return PositionClass(pos)
	}
	switch {
	case strings.Contains(pos, "G"):
		return ShootingGuard
	case strings.Contains(pos, "F"):
		return SmallForward
	case strings.Contains(pos, "C"):
		return Center
	default:
		return ShootingGuard
	}
}

// DefensiveFactor returns the DvP multiplier the opponent applies to a
// player of the given position. Unknown opponents are neutral.
func DefensiveFactor(opponentCode, position string) float64 {
	row, ok := dvpRatings[opponentCode]
	if !ok {
		return 1.0
	}
	if factor, ok := row[NormalizePosition(position)]; ok {
		return factor
	}
	return 1.0
}

// AdjustDefenseForInjuries computes the additive per-category deltas
// caused by absent key defenders on the opponent roster, together with
// the human-readable list of missing defenders. The deltas are added to
// the base defensive factor, so a single absence can flip an elite
// matchup into a leaky one.
func AdjustDefenseForInjuries(roster []models.PlayerContext) (CategoryAdjustments, []string) {
	var adjustments CategoryAdjustments
	var missing []string

	for _, player := range roster {
		impact, ok := keyDefenders[player.FullName]
		if !ok || player.Status() != models.InjuryOut {
			continue
		}

		missing = append(missing, fmt.Sprintf("%s (%s)", player.FullName, impact.Class))

		switch impact.Class {
		case DefenderCenter:
			adjustments.Rebounds += impact.Impact * 1.5
			adjustments.Points += impact.Impact * 1.2
			adjustments.Assists += impact.Impact * 0.5
		case DefenderGuard:
			adjustments.Assists += impact.Impact * 1.5
			adjustments.Points += impact.Impact * 1.0
			adjustments.Rebounds += impact.Impact * 0.2
		case DefenderForward:
			adjustments.Points += impact.Impact * 1.0
			adjustments.Rebounds += impact.Impact * 0.8
			adjustments.Assists += impact.Impact * 0.8
		}
	}

	return adjustments, missing
}

// OffensiveBoost computes the usage multipliers a player receives when
// recognized stars on his own team are OUT. Boosts stack additively per
// absent star and the player never boosts himself.
func OffensiveBoost(playerName, teamCode string, roster []models.PlayerContext) (Multipliers, []string) {
	boosts := NeutralMultipliers()
	var missingStars []string

	stars, ok := teamStars[teamCode]
	if !ok || len(roster) == 0 {
		return boosts, missingStars
	}

	for _, teammate := range roster {
		if teammate.Status() != models.InjuryOut || teammate.FullName == playerName {
			continue
		}
		if !containsName(stars, teammate.FullName) {
			continue
		}
		missingStars = append(missingStars, teammate.FullName)
		boosts.Points += 0.15
		boosts.Assists += 0.15
		boosts.Rebounds += 0.05
	}

	return boosts, missingStars
}

func containsName(names []string, target string) bool {
	for _, n := range names {
		if n == target {
			return true
		}
	}
	return false
}
