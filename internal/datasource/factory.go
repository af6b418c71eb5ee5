package datasource

import (
	"fmt"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/config"
	log "github.com/sirupsen/logrus"
)

// Providers bundles the ingestion-facing providers built from config.
// Roster is a fallback chain with ESPN ahead of stats.nba.com so injury
// designations win when both sources are up.
type Providers struct {
	GameLogs GameLogProvider
	Roster   RosterProvider
}

// NewProviders builds providers from the configured ingestion sources
func NewProviders(cfg config.IngestionConfig, httpClient *RateLimitedHTTPClient, logger *log.Logger) (*Providers, error) {
	var (
		nbaStats *NBAStatsClient
		espn     *ESPNClient
	)

	for _, source := range cfg.Sources {
		switch source.Name {
		case nbaStatsSourceName:
			nbaStats = NewNBAStatsClient(httpClient, source.BaseURL, source.Enabled)
		case espnSourceName:
			espn = NewESPNClient(httpClient, source.BaseURL, source.Enabled)
		default:
			return nil, fmt.Errorf("unknown data source: %s", source.Name)
		}
	}

	if nbaStats == nil || !nbaStats.IsEnabled() {
		return nil, fmt.Errorf("data source %s must be configured and enabled", nbaStatsSourceName)
	}

	rosterChain := make([]RosterProvider, 0, 2)
	if espn != nil && espn.IsEnabled() {
		rosterChain = append(rosterChain, espn)
	}
	rosterChain = append(rosterChain, nbaStats)

	return &Providers{
		GameLogs: nbaStats,
		Roster:   NewFallbackRosterProvider(logger, rosterChain...),
	}, nil
}
