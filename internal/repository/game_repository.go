package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/database"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

const errScanGame = "failed to scan game: %w"

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Create inserts a new scheduled game
func (r *PostgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, nba_game_id, game_date, home_team, away_team, arena, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.NBAGameID, game.GameDate, game.HomeTeam, game.AwayTeam,
		game.Arena, game.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	return nil
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := `
		SELECT id, nba_game_id, game_date, home_team, away_team, arena, status, created_at, updated_at
		FROM games WHERE id = $1
	`

	game := &models.Game{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&game.ID, &game.NBAGameID, &game.GameDate, &game.HomeTeam, &game.AwayTeam,
		&game.Arena, &game.Status, &game.CreatedAt, &game.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetByNBAGameID retrieves a game by the NBA's game identifier
func (r *PostgresGameRepository) GetByNBAGameID(ctx context.Context, nbaGameID string) (*models.Game, error) {
	query := `
		SELECT id, nba_game_id, game_date, home_team, away_team, arena, status, created_at, updated_at
		FROM games WHERE nba_game_id = $1
	`

	game := &models.Game{}
	err := r.db.GetPool().QueryRow(ctx, query, nbaGameID).Scan(
		&game.ID, &game.NBAGameID, &game.GameDate, &game.HomeTeam, &game.AwayTeam,
		&game.Arena, &game.Status, &game.CreatedAt, &game.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by NBA id: %w", err)
	}

	return game, nil
}

// GetByDate retrieves all games scheduled on a calendar day
func (r *PostgresGameRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Game, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	query := `
		SELECT id, nba_game_id, game_date, home_team, away_team, arena, status, created_at, updated_at
		FROM games
		WHERE game_date >= $1 AND game_date < $2
		ORDER BY game_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by date: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(
			&game.ID, &game.NBAGameID, &game.GameDate, &game.HomeTeam, &game.AwayTeam,
			&game.Arena, &game.Status, &game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}

// GetByTeamAndDate retrieves the game a team plays on a calendar day
func (r *PostgresGameRepository) GetByTeamAndDate(ctx context.Context, teamCode string, date time.Time) (*models.Game, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	query := `
		SELECT id, nba_game_id, game_date, home_team, away_team, arena, status, created_at, updated_at
		FROM games
		WHERE (home_team = $1 OR away_team = $1) AND game_date >= $2 AND game_date < $3
		LIMIT 1
	`

	game := &models.Game{}
	err := r.db.GetPool().QueryRow(ctx, query, teamCode, startOfDay, endOfDay).Scan(
		&game.ID, &game.NBAGameID, &game.GameDate, &game.HomeTeam, &game.AwayTeam,
		&game.Arena, &game.Status, &game.CreatedAt, &game.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by team and date: %w", err)
	}

	return game, nil
}

// Update updates an existing game
func (r *PostgresGameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games SET
			game_date = $2, home_team = $3, away_team = $4, arena = $5, status = $6, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.GameDate, game.HomeTeam, game.AwayTeam, game.Arena, game.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete deletes a game
func (r *PostgresGameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM games WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
