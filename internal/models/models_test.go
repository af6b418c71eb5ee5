package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGameLogFingerprintStable(t *testing.T) {
	entry := &GameLogEntry{
		Points: 30, Rebounds: 8, Assists: 9,
		Steals: 1, Blocks: 0, ThreePointersMade: 4,
		MinutesPlayed: 36.5, FGPercentage: 0.512,
	}
	first := entry.Fingerprint()
	assert.Len(t, first, 64)
	assert.Equal(t, first, entry.Fingerprint())

	// Identifiers don't participate in the hash, only the box score
	clone := *entry
	clone.NBAGameID = "0022300999"
	clone.Matchup = "DAL @ BOS"
	assert.Equal(t, first, clone.Fingerprint())

	changed := *entry
	changed.Points = 31
	assert.NotEqual(t, first, changed.Fingerprint())
}

func TestGameLogStatAndMatchup(t *testing.T) {
	entry := &GameLogEntry{Points: 25, Rebounds: 10, Assists: 7, ThreePointersMade: 3, Matchup: "DAL vs. MIN"}

	assert.Equal(t, 25.0, entry.Stat(StatPoints))
	assert.Equal(t, 10.0, entry.Stat(StatRebounds))
	assert.Equal(t, 3.0, entry.Stat(StatThreePointersMade))
	assert.Equal(t, 0.0, entry.Stat(StatCategory("turnovers")))

	assert.True(t, entry.IsHome())
	assert.True(t, entry.VersusOpponent("MIN"))
	assert.False(t, entry.VersusOpponent("BOS"))
	assert.False(t, entry.VersusOpponent(""))

	road := &GameLogEntry{Matchup: "DAL @ BOS"}
	assert.False(t, road.IsHome())
}

func TestBettingLineExpiry(t *testing.T) {
	now := time.Now()
	line := &BettingLine{Line: 27.5, FetchedAt: now.Add(-10 * time.Minute), TTL: 30 * time.Minute}

	assert.False(t, line.IsExpired(now))
	assert.True(t, line.Usable(now))

	assert.True(t, line.IsExpired(now.Add(25*time.Minute)))
	assert.False(t, line.Usable(now.Add(25*time.Minute)))

	// Zero TTL never expires
	eternal := &BettingLine{Line: 27.5, FetchedAt: now.Add(-24 * time.Hour)}
	assert.True(t, eternal.Usable(now))

	zeroLine := &BettingLine{Line: 0, FetchedAt: now}
	assert.False(t, zeroLine.Usable(now))
}

func TestBettingLineBestPrice(t *testing.T) {
	over := 1.85
	line := &BettingLine{Line: 27.5, OverPrice: &over}

	assert.Equal(t, 1.85, line.BestPrice(BetSideOver))
	assert.Equal(t, 0.0, line.BestPrice(BetSideUnder))
}

func TestAvailabilityFactors(t *testing.T) {
	tests := []struct {
		status InjuryStatus
		want   float64
	}{
		{InjuryOut, 0.0},
		{InjuryDoubtful, 0.5},
		{InjuryQuestionable, 0.7},
		{InjuryDayToDay, 0.7},
		{InjuryGTD, 0.7},
		{InjuryProbable, 0.9},
		{InjuryHealthy, 1.0},
		{InjuryUnknown, 1.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.AvailabilityFactor(), string(tt.status))
	}
}

func TestPlayerContextAvailability(t *testing.T) {
	prob := 80.0
	p := &PlayerContext{InjuryStatus: InjuryQuestionable, PlayProbability: &prob}
	assert.InDelta(t, 0.56, p.Availability(), 1e-9)

	noProb := &PlayerContext{InjuryStatus: InjuryProbable}
	assert.Equal(t, 0.9, noProb.Availability())

	out := &PlayerContext{InjuryStatus: InjuryOut, PlayProbability: &prob}
	assert.Equal(t, 0.0, out.Availability())

	blank := &PlayerContext{}
	assert.Equal(t, InjuryUnknown, blank.Status())
	assert.Equal(t, 1.0, blank.Availability())
}

func TestGameOpponentOf(t *testing.T) {
	game := &Game{HomeTeam: "BOS", AwayTeam: "DAL"}

	opp, home := game.OpponentOf("BOS")
	assert.Equal(t, "DAL", opp)
	assert.True(t, home)

	opp, home = game.OpponentOf("DAL")
	assert.Equal(t, "BOS", opp)
	assert.False(t, home)
}

func TestGameSpreadValue(t *testing.T) {
	spread := -12.5
	game := &Game{Spread: &spread}
	assert.Equal(t, 12.5, game.SpreadValue())

	assert.Equal(t, 0.0, (&Game{}).SpreadValue())
}

func TestExpectedValue(t *testing.T) {
	// P(win)=0.60 at decimal odds 1.85 -> EV = 0.60*1.85 - 1 = 0.11
	assert.InDelta(t, 0.11, ExpectedValue(0.60, 1.85), 1e-9)
	assert.InDelta(t, -1.0, ExpectedValue(0, 1.85), 1e-9)
}

func TestStatCategoryHelpers(t *testing.T) {
	assert.True(t, StatPoints.IsValid())
	assert.False(t, StatCategory("turnovers").IsValid())
	assert.Equal(t, "player_points", StatPoints.OddsAPIMarketKey())
	assert.Equal(t, "player_three_points_made", StatThreePointersMade.OddsAPIMarketKey())
	assert.Len(t, AllStatCategories, 6)
}
