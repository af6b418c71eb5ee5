package models

import (
	"time"

	"github.com/google/uuid"
)

// InjuryStatus represents a player's availability designation
type InjuryStatus string

const (
	InjuryHealthy      InjuryStatus = "HEALTHY"
	InjuryOut          InjuryStatus = "OUT"
	InjuryDoubtful     InjuryStatus = "DOUBTFUL"
	InjuryQuestionable InjuryStatus = "QUESTIONABLE"
	InjuryDayToDay     InjuryStatus = "DAY_TO_DAY"
	InjuryGTD          InjuryStatus = "GTD"
	InjuryProbable     InjuryStatus = "PROBABLE"
	InjuryUnknown      InjuryStatus = "UNKNOWN"
)

// AvailabilityFactor converts the injury designation into the multiplier
// applied to a confidence score. OUT disqualifies the player entirely.
func (s InjuryStatus) AvailabilityFactor() float64 {
	switch s {
	case InjuryOut:
		return 0.0
	case InjuryDoubtful:
		return 0.5
	case InjuryQuestionable, InjuryDayToDay, InjuryGTD:
		return 0.7
	case InjuryProbable:
		return 0.9
	default:
		return 1.0
	}
}

// Player represents an NBA player tracked in the database
type Player struct {
	ID          uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	NBAPlayerID int       `db:"nba_player_id" json:"nba_player_id" validate:"required,gt=0"`
	FullName    string    `db:"full_name" json:"full_name" validate:"required"`
	TeamCode    string    `db:"team_code" json:"team_code"`
	Position    string    `db:"position" json:"position"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PlayerContext is the roster/injury snapshot for one player, as resolved
// by the roster providers. Read-only to the projection core.
type PlayerContext struct {
	NBAPlayerID     int          `json:"nba_player_id"`
	FullName        string       `json:"full_name"`
	TeamCode        string       `json:"team_code"`
	Position        string       `json:"position"`
	InjuryStatus    InjuryStatus `json:"injury_status"`
	PlayProbability *float64     `json:"play_probability"` // 0-100, nil if unknown
}

// Availability returns the combined availability multiplier: injury status
// factor scaled by the explicit play probability when one is known.
func (p *PlayerContext) Availability() float64 {
	factor := p.InjuryStatus.AvailabilityFactor()
	if p.PlayProbability != nil && *p.PlayProbability >= 0 && *p.PlayProbability <= 100 {
		factor *= *p.PlayProbability / 100.0
	}
	return factor
}

// Status returns the injury status, defaulting to UNKNOWN when unset
func (p *PlayerContext) Status() InjuryStatus {
	if p.InjuryStatus == "" {
		return InjuryUnknown
	}
	return p.InjuryStatus
}
