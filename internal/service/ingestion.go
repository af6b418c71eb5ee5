// Package service provides the data ingestion workflow.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/datasource"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/logger"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/metrics"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/repository"
)

// SyncResult holds the counters of one game-log synchronisation run
type SyncResult struct {
	PlayersSynced int
	Inserted      int
	Updated       int
	Unchanged     int
	Failed        int
	Duration      time.Duration
}

// String renders the result for log lines
func (r *SyncResult) String() string {
	return fmt.Sprintf("%d players: %d inserted, %d updated, %d unchanged, %d failed in %v",
		r.PlayersSynced, r.Inserted, r.Updated, r.Unchanged, r.Failed, r.Duration)
}

// IngestionService pulls game logs and rosters from the providers and
// persists them through the repositories. Re-running a sync is safe: the
// content fingerprint makes upserts idempotent.
type IngestionService struct {
	gameLogs   datasource.GameLogProvider
	roster     datasource.RosterProvider
	playerRepo repository.PlayerRepository
	logRepo    repository.GameLogRepository
	season     string
	logger     *logger.IngestionLogger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	gameLogs datasource.GameLogProvider,
	roster datasource.RosterProvider,
	playerRepo repository.PlayerRepository,
	logRepo repository.GameLogRepository,
	season string,
	ingestionLogger *logger.IngestionLogger,
) *IngestionService {
	return &IngestionService{
		gameLogs:   gameLogs,
		roster:     roster,
		playerRepo: playerRepo,
		logRepo:    logRepo,
		season:     season,
		logger:     ingestionLogger,
	}
}

// SyncGameLogs fetches and upserts the season's game logs for every
// active player. Per-player failures are counted and logged, they never
// stop the run.
func (s *IngestionService) SyncGameLogs(ctx context.Context, limit int) (*SyncResult, error) {
	start := time.Now()

	players, err := s.playerRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active players: %w", err)
	}

	s.logger.LogSyncStarted(len(players), s.season, start)
	result := &SyncResult{}

	for _, player := range players {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		if err := s.syncPlayer(ctx, player, limit, result); err != nil {
			result.Failed++
			s.logger.LogPlayerSyncFailure(player.FullName, player.NBAPlayerID, err.Error())
			continue
		}
		result.PlayersSynced++
	}

	result.Duration = time.Since(start)
	s.logger.LogSyncCompleted(result.Inserted, result.Updated, result.Unchanged, result.Failed,
		float64(result.Duration.Milliseconds()))
	metrics.RecordIngestionDuration(result.Duration.Seconds())

	return result, nil
}

// syncPlayer fetches one player's logs and upserts each entry
func (s *IngestionService) syncPlayer(ctx context.Context, player *models.Player, limit int, result *SyncResult) error {
	logs, err := s.gameLogs.FetchGameLogs(ctx, player.NBAPlayerID, s.season, limit)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	for _, data := range logs {
		entry := data.ToGameLogEntry()
		entry.PlayerID = player.ID
		outcome, err := s.logRepo.Upsert(ctx, entry)
		if err != nil {
			return fmt.Errorf("upsert failed for game %s: %w", entry.NBAGameID, err)
		}

		switch outcome {
		case repository.UpsertInserted:
			result.Inserted++
			metrics.RecordUpsert("inserted")
		case repository.UpsertUpdated:
			result.Updated++
			metrics.RecordUpsert("updated")
		default:
			result.Unchanged++
			metrics.RecordUpsert("unchanged")
		}
	}

	return nil
}

// RefreshInjuries pulls every tracked team's roster and updates the
// players' team and position fields. The injury designations themselves
// live in the roster snapshot consumed at scan time; this keeps the
// database's static player rows aligned with reality.
func (s *IngestionService) RefreshInjuries(ctx context.Context) error {
	players, err := s.playerRepo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active players: %w", err)
	}

	teams := make(map[string][]*models.Player)
	for _, player := range players {
		if player.TeamCode == "" {
			continue
		}
		teams[player.TeamCode] = append(teams[player.TeamCode], player)
	}

	refreshed := 0
	flagged := 0
	for teamCode, teamPlayers := range teams {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		roster, err := s.roster.FetchRoster(ctx, teamCode)
		if err != nil {
			s.logger.WithError(err).WithField("team_code", teamCode).Warn("Roster refresh failed")
			continue
		}
		refreshed++

		for _, player := range teamPlayers {
			entry, found := rosterEntry(roster, player)
			if !found {
				continue
			}
			if entry.Status() != models.InjuryHealthy {
				flagged++
			}
			if entry.Position != "" && entry.Position != player.Position {
				player.Position = entry.Position
				if err := s.playerRepo.Update(ctx, player); err != nil {
					s.logger.WithError(err).WithField("player", player.FullName).Warn("Player update failed")
				}
			}
		}
	}

	s.logger.LogInjuryRefresh(refreshed, flagged, s.roster.Name())
	return nil
}

func rosterEntry(roster []models.PlayerContext, player *models.Player) (models.PlayerContext, bool) {
	for _, entry := range roster {
		if entry.NBAPlayerID == player.NBAPlayerID ||
			datasource.NormalizeName(entry.FullName) == datasource.NormalizeName(player.FullName) {
			return entry, true
		}
	}
	return models.PlayerContext{}, false
}
