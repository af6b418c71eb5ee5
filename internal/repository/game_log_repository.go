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

const errScanGameLog = "failed to scan game log entry: %w"

// PostgresGameLogRepository implements GameLogRepository for PostgreSQL
type PostgresGameLogRepository struct {
	db *database.DB
}

// NewPostgresGameLogRepository creates a new game-log repository
func NewPostgresGameLogRepository(db *database.DB) GameLogRepository {
	return &PostgresGameLogRepository{db: db}
}

// Upsert inserts or updates one box-score line, keyed by (player_id,
// nba_game_id). The content fingerprint makes re-ingestion idempotent:
// when the stored hash matches the incoming one the row is left alone.
func (r *PostgresGameLogRepository) Upsert(ctx context.Context, entry *models.GameLogEntry) (UpsertOutcome, error) {
	if entry.ContentHash == "" {
		entry.ContentHash = entry.Fingerprint()
	}

	var existingHash string
	err := r.db.GetPool().QueryRow(ctx,
		`SELECT content_hash FROM game_logs WHERE player_id = $1 AND nba_game_id = $2`,
		entry.PlayerID, entry.NBAGameID,
	).Scan(&existingHash)

	if err == pgx.ErrNoRows {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		query := `
			INSERT INTO game_logs (id, player_id, nba_game_id, game_date, points, rebounds, assists,
			                       steals, blocks, three_points_made, matchup, minutes_played,
			                       fg_percentage, content_hash)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		_, err := r.db.GetPool().Exec(ctx, query,
			entry.ID, entry.PlayerID, entry.NBAGameID, entry.GameDate,
			entry.Points, entry.Rebounds, entry.Assists, entry.Steals, entry.Blocks,
			entry.ThreePointersMade, entry.Matchup, entry.MinutesPlayed,
			entry.FGPercentage, entry.ContentHash,
		)
		if err != nil {
			return UpsertUnchanged, fmt.Errorf("failed to insert game log entry: %w", err)
		}
		return UpsertInserted, nil
	}
	if err != nil {
		return UpsertUnchanged, fmt.Errorf("failed to look up game log entry: %w", err)
	}

	if existingHash == entry.ContentHash {
		return UpsertUnchanged, nil
	}

	query := `
		UPDATE game_logs SET
			game_date = $3, points = $4, rebounds = $5, assists = $6, steals = $7,
			blocks = $8, three_points_made = $9, matchup = $10, minutes_played = $11,
			fg_percentage = $12, content_hash = $13, updated_at = NOW()
		WHERE player_id = $1 AND nba_game_id = $2
	`
	_, err = r.db.GetPool().Exec(ctx, query,
		entry.PlayerID, entry.NBAGameID, entry.GameDate,
		entry.Points, entry.Rebounds, entry.Assists, entry.Steals, entry.Blocks,
		entry.ThreePointersMade, entry.Matchup, entry.MinutesPlayed,
		entry.FGPercentage, entry.ContentHash,
	)
	if err != nil {
		return UpsertUnchanged, fmt.Errorf("failed to update game log entry: %w", err)
	}

	return UpsertUpdated, nil
}

// GetByPlayerID retrieves the most recent game logs for a player,
// most-recent-first, as the projection engine expects
func (r *PostgresGameLogRepository) GetByPlayerID(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.GameLogEntry, error) {
	query := `
		SELECT id, player_id, nba_game_id, game_date, points, rebounds, assists, steals,
		       blocks, three_points_made, matchup, minutes_played, fg_percentage,
		       content_hash, updated_at
		FROM game_logs
		WHERE player_id = $1
		ORDER BY game_date DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs: %w", err)
	}
	defer rows.Close()

	return scanGameLogs(rows)
}

// GetByPlayerSince retrieves a player's game logs on or after the given date
func (r *PostgresGameLogRepository) GetByPlayerSince(ctx context.Context, playerID uuid.UUID, since time.Time) ([]*models.GameLogEntry, error) {
	query := `
		SELECT id, player_id, nba_game_id, game_date, points, rebounds, assists, steals,
		       blocks, three_points_made, matchup, minutes_played, fg_percentage,
		       content_hash, updated_at
		FROM game_logs
		WHERE player_id = $1 AND game_date >= $2
		ORDER BY game_date DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs since date: %w", err)
	}
	defer rows.Close()

	return scanGameLogs(rows)
}

// CountByPlayerID returns the number of recorded games for a player
func (r *PostgresGameLogRepository) CountByPlayerID(ctx context.Context, playerID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx,
		`SELECT COUNT(*) FROM game_logs WHERE player_id = $1`, playerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count game logs: %w", err)
	}
	return count, nil
}

// DeleteByPlayerID removes all game logs for a player
func (r *PostgresGameLogRepository) DeleteByPlayerID(ctx context.Context, playerID uuid.UUID) error {
	_, err := r.db.GetPool().Exec(ctx, `DELETE FROM game_logs WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete game logs: %w", err)
	}
	return nil
}

func scanGameLogs(rows pgx.Rows) ([]*models.GameLogEntry, error) {
	var entries []*models.GameLogEntry
	for rows.Next() {
		entry := &models.GameLogEntry{}
		err := rows.Scan(
			&entry.ID, &entry.PlayerID, &entry.NBAGameID, &entry.GameDate,
			&entry.Points, &entry.Rebounds, &entry.Assists, &entry.Steals, &entry.Blocks,
			&entry.ThreePointersMade, &entry.Matchup, &entry.MinutesPlayed,
			&entry.FGPercentage, &entry.ContentHash, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGameLog, err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
