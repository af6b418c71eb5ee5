// Package metrics provides the centralized Prometheus metrics registry for the projection pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ScansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jimmy_ai",
		Name:      "scans_total",
		Help:      "Total number of prop scans started",
	})
	ScansAbortedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jimmy_ai",
		Name:      "scans_aborted_total",
		Help:      "Total number of scans aborted before completion",
	})
	PlayersScannedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jimmy_ai",
		Name:      "players_scanned_total",
		Help:      "Total number of players evaluated across scans",
	})
	CandidatesEmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jimmy_ai",
		Name:      "candidates_emitted_total",
		Help:      "Total number of bet candidates emitted, by market",
	}, []string{"market"})
	OddsAPIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jimmy_ai",
		Name:      "odds_api_requests_total",
		Help:      "Total number of odds API requests, by status code",
	}, []string{"status"})
	OddsKeyRotationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jimmy_ai",
		Name:      "odds_key_rotations_total",
		Help:      "Total number of odds API key rotations",
	})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jimmy_ai",
		Name:      "cache_hits_total",
		Help:      "Total cache hits, by cache name",
	}, []string{"cache"})
	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jimmy_ai",
		Name:      "cache_misses_total",
		Help:      "Total cache misses, by cache name",
	}, []string{"cache"})
	GameLogUpsertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jimmy_ai",
		Name:      "game_log_upserts_total",
		Help:      "Total game-log upserts, by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	RemainingAPIKeys = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jimmy_ai",
		Name:      "odds_api_keys_remaining",
		Help:      "Number of odds API keys left in the rotation pool",
	})
	ScanProgress = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jimmy_ai",
		Name:      "scan_progress_percent",
		Help:      "Progress of the currently running scan, 0-100",
	})
	ActivePlayers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jimmy_ai",
		Name:      "active_players",
		Help:      "Number of active players tracked in the database",
	})
)

// Histogram metrics
var (
	ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "jimmy_ai",
		Name:      "scan_duration_seconds",
		Help:      "Duration of full prop scans in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})
	PlayerScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "jimmy_ai",
		Name:      "player_scan_duration_seconds",
		Help:      "Duration of one player's projection pass in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	IngestionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "jimmy_ai",
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of game-log sync runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(ScansTotal)
		registry.MustRegister(ScansAbortedTotal)
		registry.MustRegister(PlayersScannedTotal)
		registry.MustRegister(CandidatesEmittedTotal)
		registry.MustRegister(OddsAPIRequestsTotal)
		registry.MustRegister(OddsKeyRotationsTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(GameLogUpsertsTotal)

		// Register gauge metrics
		registry.MustRegister(RemainingAPIKeys)
		registry.MustRegister(ScanProgress)
		registry.MustRegister(ActivePlayers)

		// Register histogram metrics
		registry.MustRegister(ScanDuration)
		registry.MustRegister(PlayerScanDuration)
		registry.MustRegister(IngestionDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordScanStarted records the start of a prop scan.
func RecordScanStarted() {
	ScansTotal.Inc()
	ScanProgress.Set(0)
}

// RecordScanCompleted records a finished scan.
func RecordScanCompleted(durationSeconds float64) {
	ScanDuration.Observe(durationSeconds)
	ScanProgress.Set(100)
}

// RecordScanAborted records an aborted scan.
func RecordScanAborted() {
	ScansAbortedTotal.Inc()
}

// RecordPlayerScanned records one player's projection pass.
func RecordPlayerScanned(durationSeconds float64) {
	PlayersScannedTotal.Inc()
	PlayerScanDuration.Observe(durationSeconds)
}

// RecordCandidate records an emitted bet candidate.
func RecordCandidate(market string) {
	CandidatesEmittedTotal.WithLabelValues(market).Inc()
}

// RecordOddsAPIRequest records one odds API call by status code.
func RecordOddsAPIRequest(status string) {
	OddsAPIRequestsTotal.WithLabelValues(status).Inc()
}

// RecordKeyRotation records an odds API key rotation.
func RecordKeyRotation(keysLeft int) {
	OddsKeyRotationsTotal.Inc()
	RemainingAPIKeys.Set(float64(keysLeft))
}

// RecordCacheHit records a cache hit.
func RecordCacheHit(cache string) {
	CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss(cache string) {
	CacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordUpsert records a game-log upsert outcome.
func RecordUpsert(outcome string) {
	GameLogUpsertsTotal.WithLabelValues(outcome).Inc()
}

// RecordIngestionDuration records the duration of a sync run.
func RecordIngestionDuration(durationSeconds float64) {
	IngestionDuration.Observe(durationSeconds)
}

// UpdateScanProgress updates the running-scan progress gauge.
func UpdateScanProgress(percent float64) {
	ScanProgress.Set(percent)
}

// UpdateActivePlayers updates the tracked-player gauge.
func UpdateActivePlayers(count float64) {
	ActivePlayers.Set(count)
}
