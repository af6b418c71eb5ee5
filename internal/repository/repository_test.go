package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/database"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

// TestNewRepositoriesRequiresDB tests that a nil database is rejected
func TestNewRepositoriesRequiresDB(t *testing.T) {
	repos, err := NewRepositories(nil)
	if err == nil {
		t.Fatal("expected error for nil database")
	}
	if repos != nil {
		t.Fatal("expected nil repositories on error")
	}
}

// TestPlayerRepositoryCreate tests player creation and retrieval
func TestPlayerRepositoryCreate(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	player := &models.Player{
		ID:          uuid.New(),
		NBAPlayerID: 1629029,
		FullName:    "Luka Doncic",
		TeamCode:    "DAL",
		Position:    "PG",
		IsActive:    true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := repos.Player.Create(ctx, player); err != nil {
		t.Fatalf("failed to create player: %v", err)
	}
	defer repos.Player.Delete(ctx, player.ID)

	retrieved, err := repos.Player.GetByNBAPlayerID(ctx, player.NBAPlayerID)
	if err != nil {
		t.Fatalf("failed to retrieve player: %v", err)
	}

	if retrieved.ID != player.ID {
		t.Errorf("expected player ID %v, got %v", player.ID, retrieved.ID)
	}
}

// TestGameLogRepositoryUpsertIdempotent tests the content-hash upsert path
func TestGameLogRepositoryUpsertIdempotent(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	player := &models.Player{
		ID:          uuid.New(),
		NBAPlayerID: 1630162,
		FullName:    "Anthony Edwards",
		TeamCode:    "MIN",
		Position:    "SG",
		IsActive:    true,
	}
	if err := repos.Player.Create(ctx, player); err != nil {
		t.Fatalf("failed to create player: %v", err)
	}
	defer repos.Player.Delete(ctx, player.ID)
	defer repos.GameLog.DeleteByPlayerID(ctx, player.ID)

	entry := &models.GameLogEntry{
		PlayerID:  player.ID,
		NBAGameID: "0022500123",
		GameDate:  time.Now().AddDate(0, 0, -1),
		Points:    30, Rebounds: 8, Assists: 9,
		Matchup:       "MIN vs. DAL",
		MinutesPlayed: 36.5,
		FGPercentage:  0.512,
	}

	outcome, err := repos.GameLog.Upsert(ctx, entry)
	if err != nil {
		t.Fatalf("failed to upsert game log: %v", err)
	}
	if outcome != UpsertInserted {
		t.Errorf("expected insert on first upsert, got %v", outcome)
	}

	// Same box score again: no-op
	outcome, err = repos.GameLog.Upsert(ctx, entry)
	if err != nil {
		t.Fatalf("failed to re-upsert game log: %v", err)
	}
	if outcome != UpsertUnchanged {
		t.Errorf("expected unchanged on identical re-upsert, got %v", outcome)
	}

	// Stat correction: update
	entry.Points = 32
	entry.ContentHash = ""
	outcome, err = repos.GameLog.Upsert(ctx, entry)
	if err != nil {
		t.Fatalf("failed to upsert corrected game log: %v", err)
	}
	if outcome != UpsertUpdated {
		t.Errorf("expected update on corrected stats, got %v", outcome)
	}
}

// TestGameRepositoryByTeamAndDate tests the schedule lookup used by scans
func TestGameRepositoryByTeamAndDate(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	game := &models.Game{
		ID:        uuid.New(),
		NBAGameID: "0022500456",
		GameDate:  time.Now().Add(6 * time.Hour),
		HomeTeam:  "BOS",
		AwayTeam:  "DAL",
		Status:    "scheduled",
	}

	if err := repos.Game.Create(ctx, game); err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	defer repos.Game.Delete(ctx, game.ID)

	retrieved, err := repos.Game.GetByTeamAndDate(ctx, "DAL", time.Now())
	if err != nil {
		t.Fatalf("failed to retrieve game: %v", err)
	}

	opponent, home := retrieved.OpponentOf("DAL")
	if opponent != "BOS" || home {
		t.Errorf("expected away game against BOS, got %s home=%v", opponent, home)
	}
}
