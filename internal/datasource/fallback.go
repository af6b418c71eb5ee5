package datasource

import (
	"context"
	"errors"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
	log "github.com/sirupsen/logrus"
)

// FallbackRosterProvider tries each configured roster provider in order
// and returns the first non-empty roster. ESPN goes first because it is
// the only source carrying injury designations.
type FallbackRosterProvider struct {
	providers []RosterProvider
	logger    *log.Logger
}

// NewFallbackRosterProvider creates a roster provider chain
func NewFallbackRosterProvider(logger *log.Logger, providers ...RosterProvider) *FallbackRosterProvider {
	return &FallbackRosterProvider{providers: providers, logger: logger}
}

// Name returns the data source name
func (f *FallbackRosterProvider) Name() string {
	return "roster_fallback"
}

// IsEnabled reports whether any provider in the chain is enabled
func (f *FallbackRosterProvider) IsEnabled() bool {
	for _, provider := range f.providers {
		if provider.IsEnabled() {
			return true
		}
	}
	return false
}

// FetchRoster returns the first non-empty roster from the chain
func (f *FallbackRosterProvider) FetchRoster(ctx context.Context, teamCode string) ([]models.PlayerContext, error) {
	var lastErr error
	for _, provider := range f.providers {
		roster, err := provider.FetchRoster(ctx, teamCode)
		if err != nil {
			lastErr = err
			f.logger.WithFields(log.Fields{
				"team_code": teamCode,
				"error":     err.Error(),
			}).Warn("Roster provider failed, trying next")
			continue
		}
		if len(roster) > 0 {
			return roster, nil
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("no roster provider returned data for " + teamCode)
}
