package models

// StatCategory represents a tracked player-prop statistical market
type StatCategory string

const (
	StatPoints            StatCategory = "points"
	StatRebounds          StatCategory = "rebounds"
	StatAssists           StatCategory = "assists"
	StatThreePointersMade StatCategory = "three_points_made"
	StatSteals            StatCategory = "steals"
	StatBlocks            StatCategory = "blocks"
)

// AllStatCategories lists every market the projection engine tracks,
// in display order
var AllStatCategories = []StatCategory{
	StatPoints,
	StatRebounds,
	StatAssists,
	StatThreePointersMade,
	StatSteals,
	StatBlocks,
}

// IsValid checks whether the category is one of the tracked markets
func (c StatCategory) IsValid() bool {
	switch c {
	case StatPoints, StatRebounds, StatAssists, StatThreePointersMade, StatSteals, StatBlocks:
		return true
	default:
		return false
	}
}

// OddsAPIMarketKey returns the market key used by The-Odds-API for this category
func (c StatCategory) OddsAPIMarketKey() string {
	return "player_" + string(c)
}
