package projection

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/factors"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/stats"
)

// Blend weights for the projection components. When the head-to-head or
// location average is unavailable its weight folds into the season
// weight, so the weights always sum to 1.0.
const (
	weightWMA      = 0.45
	weightShortEMA = 0.25
	weightSeason   = 0.15
	weightH2H      = 0.10
	weightLocation = 0.05
)

// Success-rate confidence tiers against the betting line
const (
	TierExcellent = "🔥 EXCELLENTE"
	TierGood      = "✅ BONNE"
	TierAverage   = "⚠️ MOYENNE"
)

// Risk labels derived from volatility
const (
	RiskLow  = "FAIBLE"
	RiskHigh = "ÉLEVÉ"
)

// Input carries the already-resolved context for one (player, game)
// pair. All external data is fetched by collaborators before the
// composer runs; nothing here blocks on I/O.
type Input struct {
	Player         models.PlayerContext
	GameLog        []*models.GameLogEntry // most-recent-first
	OpponentCode   string
	Home           bool
	TeamRoster     []models.PlayerContext
	OpponentRoster []models.PlayerContext
	GameSpread     float64
	Lines          map[models.StatCategory]*models.BettingLine
	Span           int // window span for the weighted average, 0 = default
	Now            time.Time
}

// Composer blends moving averages and contextual multipliers into
// adjusted projections
type Composer struct {
	logger *logrus.Logger
}

// NewComposer creates a projection composer
func NewComposer(logger *logrus.Logger) *Composer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Composer{logger: logger}
}

// ProjectAll computes a projection per tracked statistical category.
// Categories without game-log data are omitted from the result map; an
// empty map means the player has no usable history at all.
func (c *Composer) ProjectAll(in Input) map[models.StatCategory]*models.Projection {
	result := make(map[models.StatCategory]*models.Projection, len(models.AllStatCategories))
	if len(in.GameLog) == 0 {
		return result
	}

	boosts, missingStars := factors.OffensiveBoost(in.Player.FullName, in.Player.TeamCode, in.TeamRoster)
	defenseDeltas, missingDefenders := factors.AdjustDefenseForInjuries(in.OpponentRoster)
	pace := factors.PaceFactor(in.OpponentCode)

	for _, category := range models.AllStatCategories {
		proj := c.projectCategory(in, category, boosts, defenseDeltas, pace)
		if proj == nil {
			continue
		}
		proj.MissingStars = missingStars
		proj.MissingDefenders = missingDefenders

		analysis := factors.AnalyzeDefense(in.OpponentCode, in.Player.Position, missingDefenders, pace)
		proj.DefenseRating = analysis.Rating
		proj.DefenseNote = analysis.Description
		proj.DefenseOpportunity = analysis.Opportunity

		result[category] = proj
	}

	if len(result) == 0 {
		c.logger.WithField("player", in.Player.FullName).Debug("No category with usable game-log data")
	}
	return result
}

func (c *Composer) projectCategory(
	in Input,
	category models.StatCategory,
	boosts factors.Multipliers,
	defenseDeltas factors.CategoryAdjustments,
	pace float64,
) *models.Projection {
	series := models.StatSeries(in.GameLog, category)
	if len(series) == 0 {
		return nil
	}

	span := in.Span
	if span <= 0 {
		span = stats.DefaultSpan
	}

	wma := stats.ExponentialWMA(series, span)
	ema := stats.ShortEMA(series)
	season := stats.Mean(series)

	h2h, hasH2H := stats.HeadToHeadAverage(in.GameLog, category, in.OpponentCode)
	loc, hasLoc := stats.LocationAverage(in.GameLog, category, in.Home)

	// Redistribute missing situational weights onto the season average
	seasonWeight := weightSeason
	h2hValue, locValue := h2h, loc
	if !hasH2H {
		seasonWeight += weightH2H
		h2hValue = season
	}
	if !hasLoc {
		seasonWeight += weightLocation
		locValue = season
	}

	raw := wma*weightWMA + ema*weightShortEMA + season*seasonWeight
	if hasH2H {
		raw += h2hValue * weightH2H
	}
	if hasLoc {
		raw += locValue * weightLocation
	}

	defensive := factors.DefensiveFactor(in.OpponentCode, in.Player.Position) + defenseDeltas.For(category)
	boost := boosts.For(category)
	adjusted := raw * boost * defensive * pace

	volatility := stats.StdDev(series)
	if math.IsNaN(volatility) {
		volatility = 0
	}

	proj := &models.Projection{
		Category:        category,
		Value:           round1(adjusted),
		RawValue:        round1(raw),
		RecentAverage:   round1(wma),
		ShortEMA:        round1(ema),
		SeasonAverage:   round1(season),
		OffensiveBoost:  boost,
		DefensiveFactor: defensive,
		PaceFactor:      pace,
		Volatility:      round2(volatility),
		RiskLabel:       riskLabel(category, volatility),
	}
	if hasH2H {
		v := round1(h2h)
		proj.HeadToHeadAvg = &v
	}
	if hasLoc {
		v := round1(loc)
		proj.LocationAvg = &v
	}

	c.attachLine(proj, in.Lines[category], series, in.Now)
	proj.Milestones = MilestoneLadder(proj.Value, volatility, category)

	return proj
}

// attachLine copies the bookmaker context onto the projection and
// computes the historical success rate against the line. An absent or
// expired line leaves the odds fields nil: no claim is made.
func (c *Composer) attachLine(proj *models.Projection, line *models.BettingLine, series []float64, now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	if line == nil || !line.Usable(now) {
		proj.SuccessRate = 0
		return
	}

	lineValue := line.Line
	proj.Line = &lineValue
	proj.OverOdds = line.OverPrice
	proj.UnderOdds = line.UnderPrice
	proj.Bookmaker = line.Bookmaker

	var above int
	for _, v := range series {
		if v > lineValue {
			above++
		}
	}
	proj.SuccessRate = float64(above) / float64(len(series))

	switch {
	case proj.SuccessRate >= 0.65:
		proj.ConfidenceTier = TierExcellent
	case proj.SuccessRate >= 0.55:
		proj.ConfidenceTier = TierGood
	default:
		proj.ConfidenceTier = TierAverage
	}
}

func riskLabel(category models.StatCategory, volatility float64) string {
	threshold := 0.5
	switch category {
	case models.StatPoints:
		threshold = 5.0
	case models.StatRebounds, models.StatAssists:
		threshold = 2.5
	}
	if volatility <= threshold {
		return RiskLow
	}
	return RiskHigh
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
