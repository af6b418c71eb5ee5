package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

func entry(points int, matchup string) *models.GameLogEntry {
	return &models.GameLogEntry{Points: points, Matchup: matchup}
}

func TestHeadToHeadAverage(t *testing.T) {
	log := []*models.GameLogEntry{
		entry(30, "DAL vs. MIN"),
		entry(20, "DAL @ BOS"),
		entry(26, "DAL @ MIN"),
	}

	avg, ok := HeadToHeadAverage(log, models.StatPoints, "MIN")
	assert.True(t, ok)
	assert.InDelta(t, 28.0, avg, 1e-9)

	_, ok = HeadToHeadAverage(log, models.StatPoints, "LAL")
	assert.False(t, ok)

	_, ok = HeadToHeadAverage(log, models.StatPoints, "")
	assert.False(t, ok)
}

func TestLocationAverage(t *testing.T) {
	log := []*models.GameLogEntry{
		entry(30, "DAL vs. MIN"),
		entry(20, "DAL @ BOS"),
		entry(24, "DAL vs. LAL"),
	}

	home, ok := LocationAverage(log, models.StatPoints, true)
	assert.True(t, ok)
	assert.InDelta(t, 27.0, home, 1e-9)

	away, ok := LocationAverage(log, models.StatPoints, false)
	assert.True(t, ok)
	assert.InDelta(t, 20.0, away, 1e-9)
}

func TestLocationAverageNoQualifyingGames(t *testing.T) {
	log := []*models.GameLogEntry{entry(20, "DAL @ BOS")}
	_, ok := LocationAverage(log, models.StatPoints, true)
	assert.False(t, ok)
}
