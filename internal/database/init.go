package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/config"
)

// requiredTables are the relations the repositories read and write
var requiredTables = []string{"players", "game_logs", "games"}

// Initialize creates a database connection pool and verifies that the
// repository schema is in place, so a missing migration fails at startup
// instead of on the first scan
func Initialize(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, table := range requiredTables {
		var regclass *string
		err := db.pool.QueryRow(ctx, "SELECT to_regclass($1)", table).Scan(&regclass)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to verify schema: %w", err)
		}
		if regclass == nil {
			missing = append(missing, table)
		}
	}

	if len(missing) > 0 {
		db.Close()
		return nil, fmt.Errorf("missing tables %s: run database migrations first", strings.Join(missing, ", "))
	}

	return db, nil
}
