// Package logger provides scan-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ScanLogger provides dedicated logging for scan operations.
type ScanLogger struct {
	*logrus.Entry
}

// NewScanLogger creates a new scan logger.
func NewScanLogger(baseLogger *logrus.Logger) *ScanLogger {
	return &ScanLogger{
		Entry: baseLogger.WithField("component", "scan"),
	}
}

// LogScanStarted logs the start of a scan run.
func (sl *ScanLogger) LogScanStarted(scanID, mode string, playersTargeted int, markets []string) {
	sl.WithFields(logrus.Fields{
		"scan_id":          scanID,
		"mode":             mode,
		"players_targeted": playersTargeted,
		"markets":          markets,
	}).Info("Scan started")
}

// LogScanCompleted logs a finished scan run.
func (sl *ScanLogger) LogScanCompleted(scanID string, playersScanned, candidatesFound int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"scan_id":           scanID,
		"players_scanned":   playersScanned,
		"candidates_found":  candidatesFound,
		"scan_duration_ms":  durationMs,
	}).Info("Scan completed")
}

// LogCandidate logs one qualifying bet candidate.
func (sl *ScanLogger) LogCandidate(scanID, player, market, side string, line, odds, probability, ev, score float64) {
	sl.WithFields(logrus.Fields{
		"scan_id":     scanID,
		"player":      player,
		"market":      market,
		"side":        side,
		"line":        line,
		"odds":        odds,
		"probability": probability,
		"ev":          ev,
		"score":       score,
	}).Info("Bet candidate emitted")
}

// LogPlayerSkipped logs a player excluded from the scan.
func (sl *ScanLogger) LogPlayerSkipped(scanID, player, reason string) {
	sl.WithFields(logrus.Fields{
		"scan_id": scanID,
		"player":  player,
		"reason":  reason,
	}).Debug("Player skipped")
}

// LogScanAborted logs an aborted scan run.
func (sl *ScanLogger) LogScanAborted(scanID, reason string, playersScanned int) {
	sl.WithFields(logrus.Fields{
		"scan_id":         scanID,
		"reason":          reason,
		"players_scanned": playersScanned,
	}).Warn("Scan aborted")
}
