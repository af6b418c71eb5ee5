// Package scan orchestrates full prop scans: games x players x markets.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/config"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/datasource"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/logger"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/metrics"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/narrative"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/projection"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/repository"
)

// Gating modes
const (
	ModeConfidence = "confidence"
	ModeEV         = "ev"
)

// ErrScanAborted is returned when a scan stops before covering every
// player, with the candidates found so far still valid.
var ErrScanAborted = errors.New("scan aborted")

// Scanner runs one full pass over the slate. Safe for concurrent use;
// the same-day memo cache makes repeated scans of a slate cheap.
type Scanner struct {
	cfg        config.ScanConfig
	playerRepo repository.PlayerRepository
	logRepo    repository.GameLogRepository
	gameRepo   repository.GameRepository
	roster     datasource.RosterProvider
	odds       datasource.OddsProvider
	composer   *projection.Composer
	narrator   narrative.Generator
	memo       *cache.Cache
	logger     *logger.ScanLogger
}

// NewScanner creates a scan orchestrator
func NewScanner(
	cfg config.ScanConfig,
	repos *repository.Repositories,
	roster datasource.RosterProvider,
	odds datasource.OddsProvider,
	composer *projection.Composer,
	narrator narrative.Generator,
	scanLogger *logger.ScanLogger,
) *Scanner {
	ttl := cfg.SameDayCacheTTL()
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Scanner{
		cfg:        cfg,
		playerRepo: repos.Player,
		logRepo:    repos.GameLog,
		gameRepo:   repos.Game,
		roster:     roster,
		odds:       odds,
		composer:   composer,
		narrator:   narrator,
		memo:       cache.New(ttl, 2*ttl),
		logger:     scanLogger,
	}
}

// Scan evaluates every active player with a game on the given date and
// returns qualifying candidates ranked by the configured mode. A partial
// result with ErrScanAborted means the odds quota ran out or the context
// was cancelled mid-scan.
func (s *Scanner) Scan(ctx context.Context, date time.Time, progress func(percent float64)) ([]models.BetCandidate, error) {
	scanID := uuid.New().String()
	start := time.Now()

	players, err := s.playerRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active players: %w", err)
	}

	s.logger.LogScanStarted(scanID, s.cfg.Mode, len(players), s.cfg.Markets)
	metrics.RecordScanStarted()
	metrics.UpdateActivePlayers(float64(len(players)))

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := s.cfg.Concurrency
	if workers <= 0 {
		workers = 1
	}

	var (
		mu         sync.Mutex
		candidates []models.BetCandidate
		scanned    int
		aborted    bool
	)

	jobs := make(chan *models.Player)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for player := range jobs {
				if scanCtx.Err() != nil {
					return
				}
				if s.odds.QuotaExhausted() {
					mu.Lock()
					aborted = true
					mu.Unlock()
					cancel()
					return
				}

				playerStart := time.Now()
				found := s.scanPlayer(scanCtx, scanID, player, date)
				metrics.RecordPlayerScanned(time.Since(playerStart).Seconds())

				mu.Lock()
				candidates = append(candidates, found...)
				scanned++
				pct := float64(scanned) / float64(len(players)) * 100
				mu.Unlock()

				metrics.UpdateScanProgress(pct)
				if progress != nil {
					progress(pct)
				}
			}
		}()
	}

feed:
	for i := range players {
		select {
		case jobs <- players[i]:
		case <-scanCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		aborted = true
	}

	s.rank(candidates)
	if s.cfg.MaxCandidates > 0 && len(candidates) > s.cfg.MaxCandidates {
		candidates = candidates[:s.cfg.MaxCandidates]
	}

	if aborted {
		reason := "context_cancelled"
		if s.odds.QuotaExhausted() {
			reason = "odds_quota_exhausted"
		}
		s.logger.LogScanAborted(scanID, reason, scanned)
		metrics.RecordScanAborted()
		return candidates, ErrScanAborted
	}

	duration := time.Since(start)
	s.logger.LogScanCompleted(scanID, scanned, len(candidates), float64(duration.Milliseconds()))
	metrics.RecordScanCompleted(duration.Seconds())

	return candidates, nil
}

// scanPlayer evaluates every configured market for one player. Errors
// skip the player rather than fail the scan.
func (s *Scanner) scanPlayer(ctx context.Context, scanID string, player *models.Player, date time.Time) []models.BetCandidate {
	memoKey := fmt.Sprintf("%s|%s", player.ID, date.Format("2006-01-02"))
	if cached, found := s.memo.Get(memoKey); found {
		metrics.RecordCacheHit("scan_memo")
		return cached.([]models.BetCandidate)
	}
	metrics.RecordCacheMiss("scan_memo")

	game, err := s.gameRepo.GetByTeamAndDate(ctx, player.TeamCode, date)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.LogPlayerSkipped(scanID, player.FullName, "no_game")
		} else {
			s.logger.LogPlayerSkipped(scanID, player.FullName, "game_lookup_failed")
		}
		return nil
	}
	opponent, home := game.OpponentOf(player.TeamCode)

	span := s.cfg.SpanGames
	entries, err := s.logRepo.GetByPlayerID(ctx, player.ID, span)
	if err != nil || len(entries) == 0 {
		s.logger.LogPlayerSkipped(scanID, player.FullName, "no_game_log")
		return nil
	}

	// Roster failures degrade to neutral context, they never skip the player
	teamRoster, err := s.roster.FetchRoster(ctx, player.TeamCode)
	if err != nil {
		teamRoster = nil
	}
	oppRoster, err := s.roster.FetchRoster(ctx, opponent)
	if err != nil {
		oppRoster = nil
	}

	playerCtx := resolvePlayerContext(player, teamRoster)
	if playerCtx.Status() == models.InjuryOut {
		s.logger.LogPlayerSkipped(scanID, player.FullName, "player_out")
		result := []models.BetCandidate{}
		s.memo.Set(memoKey, result, cache.DefaultExpiration)
		return result
	}

	lines := s.fetchLines(ctx, player, game)

	projections := s.composer.ProjectAll(projection.Input{
		Player:         playerCtx,
		GameLog:        entries,
		OpponentCode:   opponent,
		Home:           home,
		TeamRoster:     teamRoster,
		OpponentRoster: oppRoster,
		GameSpread:     game.SpreadValue(),
		Lines:          lines,
		Span:           span,
		Now:            time.Now(),
	})

	candidates := make([]models.BetCandidate, 0, len(projections))
	for _, market := range s.cfg.Markets {
		category := models.StatCategory(market)
		proj, ok := projections[category]
		if !ok || proj.Line == nil {
			continue
		}

		candidate, ok := s.buildCandidate(player, game, opponent, playerCtx, proj)
		if !ok {
			continue
		}

		s.attachVerdict(ctx, &candidate, proj)
		candidates = append(candidates, candidate)

		s.logger.LogCandidate(scanID, player.FullName, market, string(candidate.Side),
			candidate.Line, candidate.Odds, candidate.Probability, candidate.EV, candidate.Score)
		metrics.RecordCandidate(market)
	}

	s.memo.Set(memoKey, candidates, cache.DefaultExpiration)
	return candidates
}

// buildCandidate picks the better side, scores it, and applies the
// configured gate. Returns false when the candidate doesn't qualify.
func (s *Scanner) buildCandidate(
	player *models.Player,
	game *models.Game,
	opponent string,
	playerCtx models.PlayerContext,
	proj *models.Projection,
) (models.BetCandidate, bool) {
	line := *proj.Line

	stdDev := proj.Volatility
	if stdDev <= 0 {
		stdDev = proj.Value * projection.DefaultVolatilityRatio
	}
	overProb := projection.OverProbability(line, proj.Value, stdDev)

	side, prob, odds := pickSide(overProb, proj.OverOdds, proj.UnderOdds)
	if odds <= 0 {
		return models.BetCandidate{}, false
	}

	ev := models.ExpectedValue(prob, odds)

	score, tag := projection.ConfidenceScore(projection.ScoreInput{
		Projection:      proj.Value,
		MarketLine:      line,
		Volatility:      proj.Volatility,
		RecentAverage:   proj.RecentAverage,
		DefensiveFactor: proj.DefensiveFactor,
		GameSpread:      game.SpreadValue(),
	})
	score, tag = projection.ApplyAvailability(score, playerCtx.Availability())

	if prob < s.cfg.MinProbability {
		return models.BetCandidate{}, false
	}
	switch s.cfg.Mode {
	case ModeEV:
		if ev < s.cfg.MinExpectedValue {
			return models.BetCandidate{}, false
		}
	default:
		if score < s.cfg.MinConfidenceScore {
			return models.BetCandidate{}, false
		}
	}

	return models.BetCandidate{
		NBAPlayerID:  player.NBAPlayerID,
		PlayerName:   player.FullName,
		TeamCode:     player.TeamCode,
		OpponentCode: opponent,
		GameID:       game.NBAGameID,
		Market:       proj.Category,
		Side:         side,
		Line:         line,
		Odds:         odds,
		Bookmaker:    proj.Bookmaker,
		Projection:   proj.Value,
		Probability:  prob,
		EV:           ev,
		Score:        score,
		Tag:          tag,
		InjuryStatus: playerCtx.Status(),
	}, true
}

// fetchLines resolves the event and pulls each configured market's line.
// Any odds failure leaves that market without a line. When the game has
// no spread yet, the bookmaker spread from the same payload fills it in.
func (s *Scanner) fetchLines(ctx context.Context, player *models.Player, game *models.Game) map[models.StatCategory]*models.BettingLine {
	lines := make(map[models.StatCategory]*models.BettingLine)
	if s.odds.QuotaExhausted() {
		return lines
	}

	eventID, err := s.odds.EventIDForTeam(ctx, player.TeamCode)
	if err != nil {
		return lines
	}
	if err := s.odds.PrefetchEventOdds(ctx, eventID); err != nil {
		return lines
	}

	if game.Spread == nil {
		if spread, err := s.odds.TeamSpread(ctx, eventID, player.TeamCode); err == nil {
			game.Spread = &spread
		}
	}

	for _, market := range s.cfg.Markets {
		category := models.StatCategory(market)
		if !category.IsValid() {
			continue
		}
		line, err := s.odds.PlayerLine(ctx, eventID, player.FullName, category)
		if err != nil {
			continue
		}
		lines[category] = line
	}
	return lines
}

func (s *Scanner) attachVerdict(ctx context.Context, candidate *models.BetCandidate, proj *models.Projection) {
	if s.narrator == nil {
		return
	}
	verdict, err := s.narrator.Verdict(ctx, narrative.Request{
		PlayerName:   candidate.PlayerName,
		Market:       candidate.Market,
		Projection:   candidate.Projection,
		Line:         candidate.Line,
		SuccessRate:  proj.SuccessRate,
		DefenseNote:  proj.DefenseNote,
		MissingStars: proj.MissingStars,
	})
	if err != nil {
		return
	}
	candidate.Verdict = verdict
}

// rank sorts candidates descending by the active gating signal
func (s *Scanner) rank(candidates []models.BetCandidate) {
	if s.cfg.Mode == ModeEV {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].EV > candidates[j].EV
		})
		return
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}

// pickSide chooses the side with the higher expected value among those
// with a quoted price
func pickSide(overProb float64, overOdds, underOdds *float64) (models.BetSide, float64, float64) {
	underProb := 1 - overProb

	overEV, underEV := -1.0, -1.0
	if overOdds != nil {
		overEV = models.ExpectedValue(overProb, *overOdds)
	}
	if underOdds != nil {
		underEV = models.ExpectedValue(underProb, *underOdds)
	}

	if overOdds == nil && underOdds == nil {
		return models.BetSideOver, overProb, 0
	}
	if underOdds == nil || (overOdds != nil && overEV >= underEV) {
		return models.BetSideOver, overProb, *overOdds
	}
	return models.BetSideUnder, underProb, *underOdds
}

// resolvePlayerContext finds the player's roster entry for injury status,
// falling back to a healthy default when the roster is unavailable
func resolvePlayerContext(player *models.Player, roster []models.PlayerContext) models.PlayerContext {
	for _, entry := range roster {
		if entry.NBAPlayerID == player.NBAPlayerID || equalNames(entry.FullName, player.FullName) {
			ctx := entry
			if ctx.Position == "" {
				ctx.Position = player.Position
			}
			return ctx
		}
	}
	return models.PlayerContext{
		NBAPlayerID:  player.NBAPlayerID,
		FullName:     player.FullName,
		TeamCode:     player.TeamCode,
		Position:     player.Position,
		InjuryStatus: models.InjuryHealthy,
	}
}

func equalNames(a, b string) bool {
	return datasource.NormalizeName(a) == datasource.NormalizeName(b)
}
