package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/database"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

const errScanPlayer = "failed to scan player: %w"

// PostgresPlayerRepository implements PlayerRepository for PostgreSQL
type PostgresPlayerRepository struct {
	db *database.DB
}

// NewPostgresPlayerRepository creates a new player repository
func NewPostgresPlayerRepository(db *database.DB) PlayerRepository {
	return &PostgresPlayerRepository{db: db}
}

// Create inserts a new player
func (r *PostgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (id, nba_player_id, full_name, team_code, position, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		player.ID, player.NBAPlayerID, player.FullName, player.TeamCode,
		player.Position, player.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

// GetByID retrieves a player by ID
func (r *PostgresPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	query := `
		SELECT id, nba_player_id, full_name, team_code, position, is_active, created_at, updated_at
		FROM players WHERE id = $1
	`

	player := &models.Player{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&player.ID, &player.NBAPlayerID, &player.FullName, &player.TeamCode,
		&player.Position, &player.IsActive, &player.CreatedAt, &player.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

// GetByNBAPlayerID retrieves a player by the NBA's numeric identifier
func (r *PostgresPlayerRepository) GetByNBAPlayerID(ctx context.Context, nbaPlayerID int) (*models.Player, error) {
	query := `
		SELECT id, nba_player_id, full_name, team_code, position, is_active, created_at, updated_at
		FROM players WHERE nba_player_id = $1
	`

	player := &models.Player{}
	err := r.db.GetPool().QueryRow(ctx, query, nbaPlayerID).Scan(
		&player.ID, &player.NBAPlayerID, &player.FullName, &player.TeamCode,
		&player.Position, &player.IsActive, &player.CreatedAt, &player.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player by NBA id: %w", err)
	}

	return player, nil
}

// GetByName retrieves a player by full name, case-insensitive
func (r *PostgresPlayerRepository) GetByName(ctx context.Context, fullName string) (*models.Player, error) {
	query := `
		SELECT id, nba_player_id, full_name, team_code, position, is_active, created_at, updated_at
		FROM players WHERE LOWER(full_name) = LOWER($1)
	`

	player := &models.Player{}
	err := r.db.GetPool().QueryRow(ctx, query, fullName).Scan(
		&player.ID, &player.NBAPlayerID, &player.FullName, &player.TeamCode,
		&player.Position, &player.IsActive, &player.CreatedAt, &player.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player by name: %w", err)
	}

	return player, nil
}

// GetActive retrieves all tracked active players
func (r *PostgresPlayerRepository) GetActive(ctx context.Context) ([]*models.Player, error) {
	query := `
		SELECT id, nba_player_id, full_name, team_code, position, is_active, created_at, updated_at
		FROM players
		WHERE is_active = TRUE
		ORDER BY full_name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// GetByTeam retrieves all players for a team
func (r *PostgresPlayerRepository) GetByTeam(ctx context.Context, teamCode string) ([]*models.Player, error) {
	query := `
		SELECT id, nba_player_id, full_name, team_code, position, is_active, created_at, updated_at
		FROM players
		WHERE team_code = $1
		ORDER BY full_name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, teamCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query players by team: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// Update updates an existing player
func (r *PostgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			full_name = $2, team_code = $3, position = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		player.ID, player.FullName, player.TeamCode, player.Position, player.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// SetActive toggles whether a player is included in scans
func (r *PostgresPlayerRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE players SET is_active = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to set player active flag: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete deletes a player
func (r *PostgresPlayerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM players WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanPlayers(rows pgx.Rows) ([]*models.Player, error) {
	var players []*models.Player
	for rows.Next() {
		player := &models.Player{}
		err := rows.Scan(
			&player.ID, &player.NBAPlayerID, &player.FullName, &player.TeamCode,
			&player.Position, &player.IsActive, &player.CreatedAt, &player.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPlayer, err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}
