package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/config"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/logger"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/narrative"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/projection"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/repository"
)

// --- fakes ---

type fakePlayerRepo struct {
	players []*models.Player
}

func (r *fakePlayerRepo) Create(context.Context, *models.Player) error { return nil }
func (r *fakePlayerRepo) GetByID(context.Context, uuid.UUID) (*models.Player, error) {
	return nil, models.ErrNotFound
}
func (r *fakePlayerRepo) GetByNBAPlayerID(context.Context, int) (*models.Player, error) {
	return nil, models.ErrNotFound
}
func (r *fakePlayerRepo) GetByName(context.Context, string) (*models.Player, error) {
	return nil, models.ErrNotFound
}
func (r *fakePlayerRepo) GetActive(context.Context) ([]*models.Player, error) {
	return r.players, nil
}
func (r *fakePlayerRepo) GetByTeam(context.Context, string) ([]*models.Player, error) {
	return nil, nil
}
func (r *fakePlayerRepo) Update(context.Context, *models.Player) error         { return nil }
func (r *fakePlayerRepo) SetActive(context.Context, uuid.UUID, bool) error     { return nil }
func (r *fakePlayerRepo) Delete(context.Context, uuid.UUID) error              { return nil }

type fakeGameLogRepo struct {
	entries map[uuid.UUID][]*models.GameLogEntry
}

func (r *fakeGameLogRepo) Upsert(context.Context, *models.GameLogEntry) (repository.UpsertOutcome, error) {
	return repository.UpsertUnchanged, nil
}
func (r *fakeGameLogRepo) GetByPlayerID(_ context.Context, playerID uuid.UUID, _ int) ([]*models.GameLogEntry, error) {
	return r.entries[playerID], nil
}
func (r *fakeGameLogRepo) GetByPlayerSince(context.Context, uuid.UUID, time.Time) ([]*models.GameLogEntry, error) {
	return nil, nil
}
func (r *fakeGameLogRepo) CountByPlayerID(_ context.Context, playerID uuid.UUID) (int, error) {
	return len(r.entries[playerID]), nil
}
func (r *fakeGameLogRepo) DeleteByPlayerID(context.Context, uuid.UUID) error { return nil }

type fakeGameRepo struct {
	mu    sync.Mutex
	games map[string]*models.Game // keyed by team code
	calls int
}

func (r *fakeGameRepo) Create(context.Context, *models.Game) error { return nil }
func (r *fakeGameRepo) GetByID(context.Context, uuid.UUID) (*models.Game, error) {
	return nil, models.ErrNotFound
}
func (r *fakeGameRepo) GetByNBAGameID(context.Context, string) (*models.Game, error) {
	return nil, models.ErrNotFound
}
func (r *fakeGameRepo) GetByDate(context.Context, time.Time) ([]*models.Game, error) {
	return nil, nil
}
func (r *fakeGameRepo) GetByTeamAndDate(_ context.Context, teamCode string, _ time.Time) (*models.Game, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	game, ok := r.games[teamCode]
	if !ok {
		return nil, models.ErrNotFound
	}
	return game, nil
}
func (r *fakeGameRepo) Update(context.Context, *models.Game) error    { return nil }
func (r *fakeGameRepo) Delete(context.Context, uuid.UUID) error       { return nil }

func (r *fakeGameRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type fakeRoster struct {
	rosters map[string][]models.PlayerContext
}

func (f *fakeRoster) FetchRoster(_ context.Context, teamCode string) ([]models.PlayerContext, error) {
	return f.rosters[teamCode], nil
}
func (f *fakeRoster) Name() string    { return "fake_roster" }
func (f *fakeRoster) IsEnabled() bool { return true }

type fakeOdds struct {
	lines     map[models.StatCategory]*models.BettingLine
	spread    float64
	exhausted bool
}

func (f *fakeOdds) EventIDForTeam(context.Context, string) (string, error) {
	return "evt1", nil
}
func (f *fakeOdds) PrefetchEventOdds(context.Context, string) error { return nil }
func (f *fakeOdds) PlayerLine(_ context.Context, _ string, _ string, market models.StatCategory) (*models.BettingLine, error) {
	line, ok := f.lines[market]
	if !ok {
		return nil, models.ErrNoLineAvailable
	}
	return line, nil
}
func (f *fakeOdds) TeamSpread(context.Context, string, string) (float64, error) {
	if f.spread == 0 {
		return 0, models.ErrNoLineAvailable
	}
	return f.spread, nil
}
func (f *fakeOdds) QuotaExhausted() bool { return f.exhausted }
func (f *fakeOdds) Name() string         { return "fake_odds" }
func (f *fakeOdds) IsEnabled() bool      { return !f.exhausted }

// --- helpers ---

func mutedLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.FatalLevel)
	return l
}

func testScanConfig() config.ScanConfig {
	return config.ScanConfig{
		Mode:                   ModeConfidence,
		MinConfidenceScore:     65,
		MinExpectedValue:       0.05,
		MinProbability:         0.5,
		MaxCandidates:          20,
		Markets:                []string{"points"},
		SpanGames:              20,
		SameDayCacheTTLMinutes: 30,
		Concurrency:            2,
	}
}

func pointsLog(playerID uuid.UUID, points ...int) []*models.GameLogEntry {
	entries := make([]*models.GameLogEntry, 0, len(points))
	for i, p := range points {
		entries = append(entries, &models.GameLogEntry{
			ID:            uuid.New(),
			PlayerID:      playerID,
			NBAGameID:     "002250010" + string(rune('0'+i)),
			GameDate:      time.Now().AddDate(0, 0, -(i + 1)),
			Points:        p,
			MinutesPlayed: 36,
		})
	}
	return entries
}

func price(v float64) *float64 { return &v }

func newTestScanner(cfg config.ScanConfig, repos *repository.Repositories, roster *fakeRoster, odds *fakeOdds) *Scanner {
	base := mutedLogger()
	return NewScanner(cfg, repos, roster, odds, projection.NewComposer(base), narrative.NewRuleBased(), logger.NewScanLogger(base))
}

func slateFixture() (*models.Player, *repository.Repositories, *fakeGameRepo, *fakeRoster, *fakeOdds) {
	player := &models.Player{
		ID:          uuid.New(),
		NBAPlayerID: 1629029,
		FullName:    "Luka Doncic",
		TeamCode:    "DAL",
		Position:    "PG",
		IsActive:    true,
	}

	gameRepo := &fakeGameRepo{games: map[string]*models.Game{
		"DAL": {
			ID:        uuid.New(),
			NBAGameID: "0022500200",
			GameDate:  time.Now(),
			HomeTeam:  "DAL",
			AwayTeam:  "WAS",
		},
	}}

	repos := &repository.Repositories{
		Player: &fakePlayerRepo{players: []*models.Player{player}},
		GameLog: &fakeGameLogRepo{entries: map[uuid.UUID][]*models.GameLogEntry{
			player.ID: pointsLog(player.ID, 31, 29, 33, 26, 30),
		}},
		Game: gameRepo,
	}

	roster := &fakeRoster{rosters: map[string][]models.PlayerContext{}}
	odds := &fakeOdds{lines: map[models.StatCategory]*models.BettingLine{
		models.StatPoints: {
			Market:     models.StatPoints,
			Line:       27.5,
			OverPrice:  price(1.90),
			UnderPrice: price(1.90),
			Bookmaker:  "Bet365",
			FetchedAt:  time.Now(),
			TTL:        30 * time.Minute,
		},
	}}

	return player, repos, gameRepo, roster, odds
}

// --- tests ---

func TestScanEmitsCandidate(t *testing.T) {
	player, repos, _, roster, odds := slateFixture()
	scanner := newTestScanner(testScanConfig(), repos, roster, odds)

	candidates, err := scanner.Scan(context.Background(), time.Now(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(candidates))
	}

	candidate := candidates[0]
	if candidate.PlayerName != player.FullName {
		t.Errorf("Expected %s, got %s", player.FullName, candidate.PlayerName)
	}
	if candidate.Market != models.StatPoints {
		t.Errorf("Expected points market, got %s", candidate.Market)
	}
	if candidate.Side != models.BetSideOver {
		t.Errorf("Expected OVER against a leaky defense, got %s", candidate.Side)
	}
	if candidate.Line != 27.5 {
		t.Errorf("Expected line 27.5, got %.1f", candidate.Line)
	}
	if candidate.Odds != 1.90 {
		t.Errorf("Expected odds 1.90, got %.2f", candidate.Odds)
	}
	if candidate.Score < 65 {
		t.Errorf("Expected score above the confidence gate, got %.1f", candidate.Score)
	}
	if candidate.EV <= 0 {
		t.Errorf("Expected positive EV, got %.3f", candidate.EV)
	}
	if candidate.Probability <= 0.5 {
		t.Errorf("Expected over probability above 0.5, got %.3f", candidate.Probability)
	}
	if candidate.Verdict == "" {
		t.Error("Expected a narrative verdict on the candidate")
	}
	if candidate.InjuryStatus != models.InjuryHealthy {
		t.Errorf("Expected healthy status without roster data, got %s", candidate.InjuryStatus)
	}
}

func TestScanSkipsPlayerWithoutGame(t *testing.T) {
	_, repos, gameRepo, roster, odds := slateFixture()
	delete(gameRepo.games, "DAL")
	scanner := newTestScanner(testScanConfig(), repos, roster, odds)

	candidates, err := scanner.Scan(context.Background(), time.Now(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Expected no candidates without a game, got %d", len(candidates))
	}
}

func TestScanSkipsOutPlayer(t *testing.T) {
	player, repos, _, roster, odds := slateFixture()
	roster.rosters["DAL"] = []models.PlayerContext{
		{NBAPlayerID: player.NBAPlayerID, FullName: player.FullName, TeamCode: "DAL", Position: "PG", InjuryStatus: models.InjuryOut},
	}
	scanner := newTestScanner(testScanConfig(), repos, roster, odds)

	candidates, err := scanner.Scan(context.Background(), time.Now(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Expected no candidates for an OUT player, got %d", len(candidates))
	}
}

func TestScanAbortsWhenQuotaExhausted(t *testing.T) {
	_, repos, _, roster, odds := slateFixture()
	odds.exhausted = true
	scanner := newTestScanner(testScanConfig(), repos, roster, odds)

	candidates, err := scanner.Scan(context.Background(), time.Now(), nil)
	if !errors.Is(err, ErrScanAborted) {
		t.Fatalf("Expected ErrScanAborted, got: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Expected no candidates after immediate abort, got %d", len(candidates))
	}
}

func TestScanMemoCache(t *testing.T) {
	_, repos, gameRepo, roster, odds := slateFixture()
	scanner := newTestScanner(testScanConfig(), repos, roster, odds)

	if _, err := scanner.Scan(context.Background(), time.Now(), nil); err != nil {
		t.Fatalf("First scan failed: %v", err)
	}
	callsAfterFirst := gameRepo.callCount()

	candidates, err := scanner.Scan(context.Background(), time.Now(), nil)
	if err != nil {
		t.Fatalf("Second scan failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected memoized candidate, got %d", len(candidates))
	}
	if gameRepo.callCount() != callsAfterFirst {
		t.Errorf("Expected second scan to hit the memo cache, game repo calls went %d -> %d",
			callsAfterFirst, gameRepo.callCount())
	}
}

func TestScanEVMode(t *testing.T) {
	_, repos, _, roster, odds := slateFixture()
	cfg := testScanConfig()
	cfg.Mode = ModeEV
	cfg.MinExpectedValue = 0.05
	scanner := newTestScanner(cfg, repos, roster, odds)

	candidates, err := scanner.Scan(context.Background(), time.Now(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate in EV mode, got %d", len(candidates))
	}
	if candidates[0].EV < cfg.MinExpectedValue {
		t.Errorf("Expected EV above the gate, got %.3f", candidates[0].EV)
	}
}

func TestScanUsesBookmakerSpread(t *testing.T) {
	cfg := testScanConfig()
	cfg.MinConfidenceScore = 30

	_, baseRepos, _, baseRoster, baseOdds := slateFixture()
	baseline, err := newTestScanner(cfg, baseRepos, baseRoster, baseOdds).Scan(context.Background(), time.Now(), nil)
	if err != nil || len(baseline) != 1 {
		t.Fatalf("Expected 1 baseline candidate, got %d (err: %v)", len(baseline), err)
	}

	_, repos, gameRepo, roster, odds := slateFixture()
	odds.spread = -15.5
	candidates, err := newTestScanner(cfg, repos, roster, odds).Scan(context.Background(), time.Now(), nil)
	if err != nil || len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate with a spread, got %d (err: %v)", len(candidates), err)
	}

	game := gameRepo.games["DAL"]
	if game.Spread == nil || game.SpreadValue() != 15.5 {
		t.Fatalf("Expected bookmaker spread 15.5 on the game, got %+v", game.Spread)
	}
	if want := baseline[0].Score - 15; candidates[0].Score != want {
		t.Errorf("Expected blowout penalty to cut the score to %.1f, got %.1f", want, candidates[0].Score)
	}
}

func TestScanProgressIsMonotonic(t *testing.T) {
	_, repos, _, roster, odds := slateFixture()
	scanner := newTestScanner(testScanConfig(), repos, roster, odds)

	var mu sync.Mutex
	var seen []float64
	_, err := scanner.Scan(context.Background(), time.Now(), func(pct float64) {
		mu.Lock()
		seen = append(seen, pct)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(seen) == 0 {
		t.Fatal("Expected progress callbacks")
	}
	if seen[len(seen)-1] != 100 {
		t.Errorf("Expected final progress 100, got %.1f", seen[len(seen)-1])
	}
}

func TestRankByMode(t *testing.T) {
	candidates := []models.BetCandidate{
		{PlayerName: "A", Score: 70, EV: 0.30},
		{PlayerName: "B", Score: 90, EV: 0.10},
		{PlayerName: "C", Score: 80, EV: 0.20},
	}

	s := &Scanner{cfg: config.ScanConfig{Mode: ModeConfidence}}
	s.rank(candidates)
	if candidates[0].PlayerName != "B" || candidates[2].PlayerName != "A" {
		t.Errorf("Confidence mode should rank by score, got %s %s %s",
			candidates[0].PlayerName, candidates[1].PlayerName, candidates[2].PlayerName)
	}

	s = &Scanner{cfg: config.ScanConfig{Mode: ModeEV}}
	s.rank(candidates)
	if candidates[0].PlayerName != "A" || candidates[2].PlayerName != "B" {
		t.Errorf("EV mode should rank by EV, got %s %s %s",
			candidates[0].PlayerName, candidates[1].PlayerName, candidates[2].PlayerName)
	}
}

func TestPickSide(t *testing.T) {
	over, under := price(1.90), price(2.10)

	side, prob, odds := pickSide(0.70, over, under)
	if side != models.BetSideOver || prob != 0.70 || odds != 1.90 {
		t.Errorf("Expected OVER at 0.70/1.90, got %s %.2f %.2f", side, prob, odds)
	}

	side, prob, odds = pickSide(0.30, over, under)
	if side != models.BetSideUnder || prob != 0.70 || odds != 2.10 {
		t.Errorf("Expected UNDER at 0.70/2.10, got %s %.2f %.2f", side, prob, odds)
	}

	side, _, odds = pickSide(0.30, over, nil)
	if side != models.BetSideOver || odds != 1.90 {
		t.Errorf("Expected OVER when only the over is priced, got %s %.2f", side, odds)
	}

	_, _, odds = pickSide(0.50, nil, nil)
	if odds != 0 {
		t.Errorf("Expected zero odds with no prices, got %.2f", odds)
	}
}

func TestJobLifecycle(t *testing.T) {
	_, repos, _, roster, odds := slateFixture()
	scanner := newTestScanner(testScanConfig(), repos, roster, odds)

	job := scanner.StartJob(context.Background(), time.Now())

	deadline := time.After(5 * time.Second)
	for !job.Done() {
		select {
		case <-deadline:
			t.Fatal("Job did not finish in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	snap := job.Snapshot()
	if snap.Status != JobCompleted {
		t.Fatalf("Expected completed job, got %s (%s)", snap.Status, snap.Error)
	}
	if snap.Progress != 100 {
		t.Errorf("Expected progress 100, got %.1f", snap.Progress)
	}
	if len(snap.Candidates) != 1 {
		t.Errorf("Expected 1 candidate in snapshot, got %d", len(snap.Candidates))
	}
	if snap.ID == uuid.Nil {
		t.Error("Expected a job id")
	}
}

func TestJobAbort(t *testing.T) {
	_, repos, _, roster, odds := slateFixture()
	odds.exhausted = true
	scanner := newTestScanner(testScanConfig(), repos, roster, odds)

	job := scanner.StartJob(context.Background(), time.Now())

	deadline := time.After(5 * time.Second)
	for !job.Done() {
		select {
		case <-deadline:
			t.Fatal("Job did not finish in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	snap := job.Snapshot()
	if snap.Status != JobAborted {
		t.Errorf("Expected aborted job, got %s", snap.Status)
	}
}

func TestBuildParlay(t *testing.T) {
	legs := []models.BetCandidate{
		{PlayerName: "A", Odds: 1.90, Probability: 0.60},
		{PlayerName: "B", Odds: 2.00, Probability: 0.50},
	}

	parlay, err := BuildParlay(legs)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if parlay.CombinedOdds != 3.80 {
		t.Errorf("Expected combined odds 3.80, got %.2f", parlay.CombinedOdds)
	}
	if parlay.Probability != 0.30 {
		t.Errorf("Expected joint probability 0.30, got %.4f", parlay.Probability)
	}
	if parlay.EV != 0.14 {
		t.Errorf("Expected EV 0.14, got %.4f", parlay.EV)
	}
}

func TestBuildParlayRejectsBadLegs(t *testing.T) {
	if _, err := BuildParlay(nil); !errors.Is(err, models.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData for empty legs, got %v", err)
	}

	legs := []models.BetCandidate{{PlayerName: "A", Odds: 0, Probability: 0.6}}
	if _, err := BuildParlay(legs); !errors.Is(err, models.ErrNoLineAvailable) {
		t.Errorf("Expected ErrNoLineAvailable for unpriced leg, got %v", err)
	}
}
