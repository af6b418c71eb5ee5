package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("not-a-level")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestScanLoggerStarted(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogScanStarted("scan_001", "confidence", 120, []string{"points", "rebounds"})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "scan_001", logEntry["scan_id"])
	assert.Equal(t, "scan", logEntry["component"])
	assert.Equal(t, "confidence", logEntry["mode"])
}

func TestScanLoggerCandidate(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogCandidate("scan_001", "Luka Doncic", "points", "OVER", 27.5, 1.85, 0.62, 0.147, 80)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Luka Doncic", logEntry["player"])
	assert.Equal(t, "OVER", logEntry["side"])
	assert.Equal(t, 27.5, logEntry["line"])
}

func TestScanLoggerAborted(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogScanAborted("scan_001", "quota_exhausted", 43)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "quota_exhausted", logEntry["reason"])
	assert.Equal(t, float64(43), logEntry["players_scanned"])
}

func TestIngestionLoggerSyncCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	ingestionLogger := NewIngestionLogger(log)

	ingestionLogger.LogSyncCompleted(12, 3, 85, 1, 4200.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "ingestion", logEntry["component"])
	assert.Equal(t, float64(12), logEntry["inserted"])
	assert.Equal(t, float64(85), logEntry["unchanged"])
}

func TestIngestionLoggerSyncStarted(t *testing.T) {
	log, buf := setupTestLogger()
	ingestionLogger := NewIngestionLogger(log)

	ingestionLogger.LogSyncStarted(150, "2025-26", time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "2025-26", logEntry["season"])
}

func TestOddsLoggerKeyRotation(t *testing.T) {
	log, buf := setupTestLogger()
	oddsLogger := NewOddsLogger(log)

	oddsLogger.LogKeyRotation(0, 2, 2, "http_401")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "odds", logEntry["component"])
	assert.Equal(t, float64(2), logEntry["failure_count"])
	assert.Equal(t, "http_401", logEntry["reason"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogScanCompleted("scan_001", 120, 7, 15800.0)

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkScanLoggerCandidate(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	scanLogger := NewScanLogger(log)

	for i := 0; i < b.N; i++ {
		scanLogger.LogCandidate("scan_001", "Luka Doncic", "points", "OVER", 27.5, 1.85, 0.62, 0.147, 80)
	}
}
