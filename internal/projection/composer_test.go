package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

func gameLog(points ...int) []*models.GameLogEntry {
	log := make([]*models.GameLogEntry, 0, len(points))
	for i, p := range points {
		log = append(log, &models.GameLogEntry{
			Points:   p,
			Rebounds: 5,
			Assists:  4,
			Matchup:  "DAL @ BOS",
			GameDate: time.Now().AddDate(0, 0, -i),
		})
	}
	return log
}

func usableLine(market models.StatCategory, line float64) *models.BettingLine {
	over := 1.85
	under := 1.95
	return &models.BettingLine{
		Market:     market,
		Line:       line,
		OverPrice:  &over,
		UnderPrice: &under,
		Bookmaker:  "Bet365",
		FetchedAt:  time.Now(),
		TTL:        30 * time.Minute,
	}
}

func TestProjectAllConsistentScorerBeatsLine(t *testing.T) {
	composer := NewComposer(nil)

	in := Input{
		Player:  models.PlayerContext{FullName: "Test Player", TeamCode: "DAL", Position: "PG"},
		GameLog: gameLog(30, 28, 32, 25, 29),
		Lines: map[models.StatCategory]*models.BettingLine{
			models.StatPoints: usableLine(models.StatPoints, 27.5),
		},
		Now: time.Now(),
	}

	projections := composer.ProjectAll(in)
	require.Contains(t, projections, models.StatPoints)

	pts := projections[models.StatPoints]
	require.NotNil(t, pts.Line)

	// Neutral multipliers: unknown opponent, no rosters
	assert.Equal(t, 1.0, pts.PaceFactor)
	assert.Equal(t, 1.0, pts.DefensiveFactor)
	assert.Equal(t, 1.0, pts.OffensiveBoost)

	// The adjusted projection clears the line and 4 of 5 games beat it
	assert.Greater(t, pts.Value, 27.5)
	assert.InDelta(t, 0.8, pts.SuccessRate, 1e-9)
	assert.Contains(t, []string{TierExcellent, TierGood}, pts.ConfidenceTier)

	assert.Equal(t, RiskLow, pts.RiskLabel)
	assert.NotEmpty(t, pts.Milestones)
}

func TestProjectAllEmptyGameLog(t *testing.T) {
	composer := NewComposer(nil)
	projections := composer.ProjectAll(Input{
		Player: models.PlayerContext{FullName: "Rookie", TeamCode: "DAL"},
	})
	assert.Empty(t, projections)
}

func TestProjectAllMissingLineMakesNoClaim(t *testing.T) {
	composer := NewComposer(nil)
	projections := composer.ProjectAll(Input{
		Player:  models.PlayerContext{FullName: "Test Player", TeamCode: "DAL", Position: "PG"},
		GameLog: gameLog(22, 25, 19),
		Now:     time.Now(),
	})

	pts := projections[models.StatPoints]
	require.NotNil(t, pts)
	assert.Nil(t, pts.Line)
	assert.Nil(t, pts.OverOdds)
	assert.Zero(t, pts.SuccessRate)
	assert.Empty(t, pts.ConfidenceTier)
}

func TestProjectAllExpiredLineTreatedAsAbsent(t *testing.T) {
	composer := NewComposer(nil)

	stale := usableLine(models.StatPoints, 24.5)
	stale.FetchedAt = time.Now().Add(-2 * time.Hour)
	stale.TTL = 30 * time.Minute

	projections := composer.ProjectAll(Input{
		Player:  models.PlayerContext{FullName: "Test Player", TeamCode: "DAL", Position: "PG"},
		GameLog: gameLog(22, 25, 19),
		Lines:   map[models.StatCategory]*models.BettingLine{models.StatPoints: stale},
		Now:     time.Now(),
	})

	assert.Nil(t, projections[models.StatPoints].Line)
}

func TestProjectAllAppliesMultipliers(t *testing.T) {
	composer := NewComposer(nil)

	neutral := composer.ProjectAll(Input{
		Player:  models.PlayerContext{FullName: "Scorer", TeamCode: "DAL", Position: "PG"},
		GameLog: gameLog(25, 25, 25, 25, 25),
		Now:     time.Now(),
	})

	// WAS: leaky PG defense (1.15) and fast pace (1.04)
	boosted := composer.ProjectAll(Input{
		Player:       models.PlayerContext{FullName: "Scorer", TeamCode: "DAL", Position: "PG"},
		GameLog:      gameLog(25, 25, 25, 25, 25),
		OpponentCode: "WAS",
		Now:          time.Now(),
	})

	assert.Greater(t, boosted[models.StatPoints].Value, neutral[models.StatPoints].Value)
	assert.Equal(t, 1.15, boosted[models.StatPoints].DefensiveFactor)
	assert.Equal(t, 1.04, boosted[models.StatPoints].PaceFactor)
}

func TestProjectAllUsageBoostFromAbsentStar(t *testing.T) {
	composer := NewComposer(nil)

	roster := []models.PlayerContext{
		{FullName: "Luka Doncic", TeamCode: "DAL", InjuryStatus: models.InjuryOut},
		{FullName: "Kyrie Irving", TeamCode: "DAL", InjuryStatus: models.InjuryHealthy},
	}

	projections := composer.ProjectAll(Input{
		Player:     models.PlayerContext{FullName: "Kyrie Irving", TeamCode: "DAL", Position: "PG"},
		GameLog:    gameLog(25, 25, 25, 25, 25),
		TeamRoster: roster,
		Now:        time.Now(),
	})

	pts := projections[models.StatPoints]
	assert.Equal(t, 1.15, pts.OffensiveBoost)
	assert.Equal(t, []string{"Luka Doncic"}, pts.MissingStars)
}

func TestProjectAllInjuredOpponentDefenderWeakensDefense(t *testing.T) {
	composer := NewComposer(nil)

	opponentRoster := []models.PlayerContext{
		{FullName: "Rudy Gobert", TeamCode: "MIN", InjuryStatus: models.InjuryOut},
	}

	withAbsence := composer.ProjectAll(Input{
		Player:         models.PlayerContext{FullName: "Center Guy", TeamCode: "DAL", Position: "C"},
		GameLog:        gameLog(20, 20, 20),
		OpponentCode:   "MIN",
		OpponentRoster: opponentRoster,
		Now:            time.Now(),
	})

	without := composer.ProjectAll(Input{
		Player:       models.PlayerContext{FullName: "Center Guy", TeamCode: "DAL", Position: "C"},
		GameLog:      gameLog(20, 20, 20),
		OpponentCode: "MIN",
		Now:          time.Now(),
	})

	// Additive delta: 0.85 + 0.15*1.2 for points
	assert.InDelta(t, 1.03, withAbsence[models.StatPoints].DefensiveFactor, 1e-9)
	assert.Equal(t, 0.85, without[models.StatPoints].DefensiveFactor)
	assert.Greater(t, withAbsence[models.StatPoints].Value, without[models.StatPoints].Value)
	assert.Equal(t, []string{"Rudy Gobert (C)"}, withAbsence[models.StatPoints].MissingDefenders)
	assert.True(t, withAbsence[models.StatPoints].DefenseOpportunity)
}

func TestProjectAllHighVolatilityRiskLabel(t *testing.T) {
	composer := NewComposer(nil)
	projections := composer.ProjectAll(Input{
		Player:  models.PlayerContext{FullName: "Streaky", TeamCode: "DAL", Position: "SG"},
		GameLog: gameLog(40, 8, 35, 5, 38, 10),
		Now:     time.Now(),
	})
	assert.Equal(t, RiskHigh, projections[models.StatPoints].RiskLabel)
}
