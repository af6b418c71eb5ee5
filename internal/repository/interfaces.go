package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

// UpsertOutcome describes what an idempotent game-log upsert did
type UpsertOutcome int

const (
	UpsertInserted UpsertOutcome = iota
	UpsertUpdated
	UpsertUnchanged
)

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetByNBAPlayerID(ctx context.Context, nbaPlayerID int) (*models.Player, error)
	GetByName(ctx context.Context, fullName string) (*models.Player, error)
	GetActive(ctx context.Context) ([]*models.Player, error)
	GetByTeam(ctx context.Context, teamCode string) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GameLogRepository defines the interface for game-log data access
type GameLogRepository interface {
	Upsert(ctx context.Context, entry *models.GameLogEntry) (UpsertOutcome, error)
	GetByPlayerID(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.GameLogEntry, error)
	GetByPlayerSince(ctx context.Context, playerID uuid.UUID, since time.Time) ([]*models.GameLogEntry, error)
	CountByPlayerID(ctx context.Context, playerID uuid.UUID) (int, error)
	DeleteByPlayerID(ctx context.Context, playerID uuid.UUID) error
}

// GameRepository defines the interface for scheduled-game data access
type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	GetByNBAGameID(ctx context.Context, nbaGameID string) (*models.Game, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Game, error)
	GetByTeamAndDate(ctx context.Context, teamCode string, date time.Time) (*models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id uuid.UUID) error
}
