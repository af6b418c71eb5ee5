// Package logger provides ingestion audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// IngestionLogger provides dedicated logging for data ingestion runs.
type IngestionLogger struct {
	*logrus.Entry
}

// NewIngestionLogger creates a new ingestion logger.
func NewIngestionLogger(baseLogger *logrus.Logger) *IngestionLogger {
	return &IngestionLogger{
		Entry: baseLogger.WithField("component", "ingestion"),
	}
}

// LogSyncStarted logs the start of a game-log synchronisation run.
func (il *IngestionLogger) LogSyncStarted(playerCount int, season string, startedAt time.Time) {
	il.WithFields(logrus.Fields{
		"player_count": playerCount,
		"season":       season,
		"started_at":   startedAt.Unix(),
	}).Info("Game log sync started")
}

// LogSyncCompleted logs the outcome of a synchronisation run.
func (il *IngestionLogger) LogSyncCompleted(inserted, updated, unchanged, failed int, durationMs float64) {
	il.WithFields(logrus.Fields{
		"inserted":          inserted,
		"updated":           updated,
		"unchanged":         unchanged,
		"failed":            failed,
		"sync_duration_ms":  durationMs,
	}).Info("Game log sync completed")
}

// LogPlayerSyncFailure logs one player whose game log could not be synced.
func (il *IngestionLogger) LogPlayerSyncFailure(playerName string, nbaPlayerID int, reason string) {
	il.WithFields(logrus.Fields{
		"player":        playerName,
		"nba_player_id": nbaPlayerID,
		"reason":        reason,
	}).Warn("Player game log sync failed")
}

// LogInjuryRefresh logs an injury report refresh.
func (il *IngestionLogger) LogInjuryRefresh(teamsRefreshed, playersFlagged int, source string) {
	il.WithFields(logrus.Fields{
		"teams_refreshed": teamsRefreshed,
		"players_flagged": playersFlagged,
		"source":          source,
	}).Info("Injury report refreshed")
}
