package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

// GameLogProvider defines the interface for fetching player box scores
// from external providers
type GameLogProvider interface {
	// FetchGameLogs retrieves a player's box scores for a season,
	// most-recent-first, capped at limit (0 = provider default)
	FetchGameLogs(ctx context.Context, nbaPlayerID int, season string, limit int) ([]GameLogData, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// RosterProvider defines the interface for fetching team rosters with
// injury designations
type RosterProvider interface {
	// FetchRoster retrieves the current roster for a team code
	FetchRoster(ctx context.Context, teamCode string) ([]models.PlayerContext, error)

	Name() string
	IsEnabled() bool
}

// OddsProvider defines the interface for fetching player-prop betting lines
type OddsProvider interface {
	// EventIDForTeam resolves the provider's event id for a team's next game
	EventIDForTeam(ctx context.Context, teamCode string) (string, error)

	// PrefetchEventOdds fetches all odds for an event in one call and caches them
	PrefetchEventOdds(ctx context.Context, eventID string) error

	// PlayerLine returns the betting line for one (player, market) pair,
	// or models.ErrNoLineAvailable when no bookmaker prices it
	PlayerLine(ctx context.Context, eventID, playerName string, market models.StatCategory) (*models.BettingLine, error)

	// TeamSpread returns the point spread for a team in an event, negative
	// when the team is favoured, or models.ErrNoLineAvailable
	TeamSpread(ctx context.Context, eventID, teamCode string) (float64, error)

	// QuotaExhausted reports whether every configured API key is spent
	QuotaExhausted() bool

	Name() string
	IsEnabled() bool
}

// GameLogData represents one normalized box-score line from any provider
type GameLogData struct {
	NBAGameID         string    `json:"nba_game_id"`
	GameDate          time.Time `json:"game_date"`
	Matchup           string    `json:"matchup"`
	Points            int       `json:"points"`
	Rebounds          int       `json:"rebounds"`
	Assists           int       `json:"assists"`
	Steals            int       `json:"steals"`
	Blocks            int       `json:"blocks"`
	ThreePointersMade int       `json:"three_points_made"`
	MinutesPlayed     float64   `json:"minutes_played"`
	FGPercentage      float64   `json:"fg_percentage"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeQuotaExhausted       = "quota_exhausted"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

const dataSourceDisabledMsg = "data source is disabled"

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ToGameLogEntry converts provider data into the persistence model
func (d *GameLogData) ToGameLogEntry() *models.GameLogEntry {
	entry := &models.GameLogEntry{
		NBAGameID:         d.NBAGameID,
		GameDate:          d.GameDate,
		Matchup:           d.Matchup,
		Points:            d.Points,
		Rebounds:          d.Rebounds,
		Assists:           d.Assists,
		Steals:            d.Steals,
		Blocks:            d.Blocks,
		ThreePointersMade: d.ThreePointersMade,
		MinutesPlayed:     d.MinutesPlayed,
		FGPercentage:      d.FGPercentage,
	}
	entry.ContentHash = entry.Fingerprint()
	return entry
}
