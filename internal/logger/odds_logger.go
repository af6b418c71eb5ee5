// Package logger provides odds-provider logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// OddsLogger provides dedicated logging for odds provider interactions.
type OddsLogger struct {
	*logrus.Entry
}

// NewOddsLogger creates a new odds logger.
func NewOddsLogger(baseLogger *logrus.Logger) *OddsLogger {
	return &OddsLogger{
		Entry: baseLogger.WithField("component", "odds"),
	}
}

// LogRequest logs one odds API request with quota headers.
func (ol *OddsLogger) LogRequest(endpoint string, statusCode int, requestsRemaining string, durationMs float64) {
	ol.WithFields(logrus.Fields{
		"endpoint":           endpoint,
		"status_code":        statusCode,
		"requests_remaining": requestsRemaining,
		"request_duration_ms": durationMs,
	}).Debug("Odds API request completed")
}

// LogKeyRotation logs rotation away from a failing API key.
func (ol *OddsLogger) LogKeyRotation(keyIndex, failureCount, keysLeft int, reason string) {
	ol.WithFields(logrus.Fields{
		"key_index":     keyIndex,
		"failure_count": failureCount,
		"keys_left":     keysLeft,
		"reason":        reason,
	}).Warn("Odds API key rotated")
}

// LogQuotaExhausted logs full quota exhaustion across all keys.
func (ol *OddsLogger) LogQuotaExhausted(keysTried int) {
	ol.WithFields(logrus.Fields{
		"keys_tried": keysTried,
	}).Error("All odds API keys exhausted")
}

// LogCacheHit logs a served-from-cache odds lookup.
func (ol *OddsLogger) LogCacheHit(cacheName, key string) {
	ol.WithFields(logrus.Fields{
		"cache": cacheName,
		"key":   key,
	}).Debug("Odds cache hit")
}
