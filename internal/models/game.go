package models

import (
	"time"

	"github.com/google/uuid"
)

// Game represents one scheduled NBA game
type Game struct {
	ID        uuid.UUID `db:"id" json:"id"`
	NBAGameID string    `db:"nba_game_id" json:"nba_game_id" validate:"required"`
	GameDate  time.Time `db:"game_date" json:"game_date"`
	HomeTeam  string    `db:"home_team" json:"home_team"`
	AwayTeam  string    `db:"away_team" json:"away_team"`
	Arena     string    `db:"arena" json:"arena"`
	Status    string    `db:"status" json:"status"`
	// Spread is the bookmaker point spread for the game when known,
	// used for the blowout-risk penalty. Nil means no spread available.
	Spread *float64 `db:"-" json:"spread,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// OpponentOf returns the opposing team code for the given team, and
// whether that team plays at home
func (g *Game) OpponentOf(teamCode string) (opponent string, home bool) {
	if teamCode == g.HomeTeam {
		return g.AwayTeam, true
	}
	return g.HomeTeam, false
}

// SpreadValue returns the absolute point spread, or 0 when unknown
func (g *Game) SpreadValue() float64 {
	if g.Spread == nil {
		return 0
	}
	if *g.Spread < 0 {
		return -*g.Spread
	}
	return *g.Spread
}
