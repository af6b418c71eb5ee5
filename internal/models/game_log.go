package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GameLogEntry represents one player's box-score line for one past game.
// Immutable once recorded; the content fingerprint makes re-ingestion of
// the same game idempotent.
type GameLogEntry struct {
	ID                uuid.UUID `db:"id" json:"id"`
	PlayerID          uuid.UUID `db:"player_id" json:"player_id"`
	NBAGameID         string    `db:"nba_game_id" json:"nba_game_id"`
	GameDate          time.Time `db:"game_date" json:"game_date"`
	Points            int       `db:"points" json:"points"`
	Rebounds          int       `db:"rebounds" json:"rebounds"`
	Assists           int       `db:"assists" json:"assists"`
	Steals            int       `db:"steals" json:"steals"`
	Blocks            int       `db:"blocks" json:"blocks"`
	ThreePointersMade int       `db:"three_points_made" json:"three_points_made"`
	Matchup           string    `db:"matchup" json:"matchup"` // e.g. "DAL vs. MIN" or "DAL @ BOS"
	MinutesPlayed     float64   `db:"minutes_played" json:"minutes_played"`
	FGPercentage      float64   `db:"fg_percentage" json:"fg_percentage"`
	ContentHash       string    `db:"content_hash" json:"-"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Fingerprint computes the content hash over the numeric fields. Two
// ingestions of the same box score always produce the same hash, so the
// repository can skip no-op updates.
func (e *GameLogEntry) Fingerprint() string {
	repr := fmt.Sprintf("%d-%d-%d-%d-%d-%d-%.1f-%.3f",
		e.Points, e.Rebounds, e.Assists, e.Steals, e.Blocks,
		e.ThreePointersMade, e.MinutesPlayed, e.FGPercentage,
	)
	sum := sha256.Sum256([]byte(repr))
	return hex.EncodeToString(sum[:])
}

// Stat returns the value of the given statistical category for this game
func (e *GameLogEntry) Stat(category StatCategory) float64 {
	switch category {
	case StatPoints:
		return float64(e.Points)
	case StatRebounds:
		return float64(e.Rebounds)
	case StatAssists:
		return float64(e.Assists)
	case StatThreePointersMade:
		return float64(e.ThreePointersMade)
	case StatSteals:
		return float64(e.Steals)
	case StatBlocks:
		return float64(e.Blocks)
	default:
		return 0
	}
}

// IsHome reports whether the game was played at home. NBA matchup strings
// use "vs." for home games and "@" for road games.
func (e *GameLogEntry) IsHome() bool {
	return strings.Contains(e.Matchup, "vs")
}

// VersusOpponent reports whether the game was played against the given
// opponent team code
func (e *GameLogEntry) VersusOpponent(code string) bool {
	if code == "" {
		return false
	}
	return strings.Contains(e.Matchup, code)
}

// StatSeries extracts one category from a most-recent-first game log
func StatSeries(entries []*GameLogEntry, category StatCategory) []float64 {
	series := make([]float64, 0, len(entries))
	for _, e := range entries {
		series = append(series, e.Stat(category))
	}
	return series
}
