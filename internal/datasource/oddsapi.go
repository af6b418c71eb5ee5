package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/config"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/factors"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/logger"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/metrics"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

const (
	oddsAPISourceName = "the_odds_api"
	eventsCacheKey    = "all_events"
	spreadsMarketKey  = "spreads"
)

// OddsAPIClient implements OddsProvider for The Odds API (basketball_nba).
// Several API keys can be configured; a key that keeps failing is removed
// from the pool so rotation doesn't flip-flop between two dead keys.
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	region     string
	lineTTL    time.Duration

	mu             sync.Mutex
	keys           []string
	keyIndex       int
	keyFailures    map[string]int
	maxKeyFailures int
	enabled        bool

	preferredBookmakers []string // lowercased, in preference order

	eventsCache *cache.Cache
	oddsCache   *cache.Cache

	logger *logger.OddsLogger
}

// oddsEvent is one upcoming game in The Odds API events listing
type oddsEvent struct {
	ID       string `json:"id"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// oddsEventOdds is the full odds payload for one event
type oddsEventOdds struct {
	ID         string          `json:"id"`
	Bookmakers []oddsBookmaker `json:"bookmakers"`
}

type oddsBookmaker struct {
	Title   string       `json:"title"`
	Markets []oddsMarket `json:"markets"`
}

type oddsMarket struct {
	Key      string        `json:"key"`
	Outcomes []oddsOutcome `json:"outcomes"`
}

type oddsOutcome struct {
	Name        string      `json:"name"`        // "Over" / "Under"
	Description string      `json:"description"` // player name
	Price       json.Number `json:"price"`
	Point       *float64    `json:"point"`
}

// NewOddsAPIClient creates a new Odds API client from configuration
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, cfg config.OddsAPIConfig, oddsLogger *logger.OddsLogger) *OddsAPIClient {
	preferred := make([]string, 0, len(cfg.PreferredBookmakers))
	for _, p := range cfg.PreferredBookmakers {
		if trimmed := strings.TrimSpace(strings.ToLower(p)); trimmed != "" {
			preferred = append(preferred, trimmed)
		}
	}

	keys := make([]string, 0, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}

	maxFailures := cfg.MaxKeyFailures
	if maxFailures <= 0 {
		maxFailures = 2
	}

	return &OddsAPIClient{
		httpClient:          httpClient,
		baseURL:             strings.TrimRight(cfg.BaseURL, "/") + "/sports/basketball_nba",
		region:              cfg.Region,
		lineTTL:             cfg.LineTTL(),
		keys:                keys,
		keyFailures:         make(map[string]int),
		maxKeyFailures:      maxFailures,
		enabled:             len(keys) > 0,
		preferredBookmakers: preferred,
		eventsCache:         cache.New(time.Hour, 2*time.Hour),
		oddsCache:           cache.New(cfg.EventCacheTTL(), 2*cfg.EventCacheTTL()),
		logger:              oddsLogger,
	}
}

// Name returns the data source name
func (c *OddsAPIClient) Name() string {
	return oddsAPISourceName
}

// IsEnabled returns whether at least one API key remains usable
func (c *OddsAPIClient) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// QuotaExhausted reports whether every configured API key is spent
func (c *OddsAPIClient) QuotaExhausted() bool {
	return !c.IsEnabled()
}

// currentKey returns the active API key, or "" when none remain
func (c *OddsAPIClient) currentKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled || len(c.keys) == 0 {
		return ""
	}
	return c.keys[c.keyIndex]
}

// markCurrentKeyFailed handles a failure for the active key. The failure
// counter is incremented; past the threshold the key is removed from the
// pool and the odds caches are flushed. Returns true when another key is
// available to retry with.
func (c *OddsAPIClient) markCurrentKeyFailed(reason string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.keys) == 0 {
		c.enabled = false
		return false
	}

	idx := c.keyIndex
	key := c.keys[idx]
	c.keyFailures[key]++
	failures := c.keyFailures[key]

	if failures >= c.maxKeyFailures {
		c.keys = append(c.keys[:idx], c.keys[idx+1:]...)
		delete(c.keyFailures, key)
		if len(c.keys) == 0 {
			c.enabled = false
			metrics.RemainingAPIKeys.Set(0)
			if c.logger != nil {
				c.logger.LogQuotaExhausted(idx + 1)
			}
			return false
		}
		c.keyIndex = c.keyIndex % len(c.keys)
		// Flush caches only on key removal; a plain rotation keeping the
		// caches avoids a refetch storm when the API is intermittent
		c.eventsCache.Flush()
		c.oddsCache.Flush()
		metrics.RecordKeyRotation(len(c.keys))
		if c.logger != nil {
			c.logger.LogKeyRotation(idx, failures, len(c.keys), reason)
		}
		return true
	}

	if len(c.keys) > 1 {
		c.keyIndex = (c.keyIndex + 1) % len(c.keys)
	}
	metrics.RecordKeyRotation(len(c.keys))
	if c.logger != nil {
		c.logger.LogKeyRotation(idx, failures, len(c.keys), reason)
	}
	return true
}

// checkRateLimit inspects the quota header and fails the key when spent
func (c *OddsAPIClient) checkRateLimit(resp *http.Response) {
	remaining := resp.Header.Get("X-Requests-Remaining")
	if remaining == "" {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(remaining)); err == nil && n <= 0 {
		c.markCurrentKeyFailed("quota_spent")
	}
}

// getJSON performs a GET with the active key, retrying once on a 401
// after rotating keys
func (c *OddsAPIClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	for attempt := 0; attempt < 2; attempt++ {
		key := c.currentKey()
		if key == "" {
			return NewDataSourceError(oddsAPISourceName, ErrCodeQuotaExhausted, "no usable API key", models.ErrQuotaExhausted)
		}

		params.Set("apiKey", key)
		fullURL := c.baseURL + path + "?" + params.Encode()

		start := time.Now()
		resp, err := c.httpClient.Get(ctx, fullURL)
		if err != nil {
			metrics.RecordOddsAPIRequest("network_error")
			return NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "request failed", err)
		}

		metrics.RecordOddsAPIRequest(strconv.Itoa(resp.StatusCode))
		if c.logger != nil {
			c.logger.LogRequest(path, resp.StatusCode, resp.Header.Get("X-Requests-Remaining"), float64(time.Since(start).Milliseconds()))
		}

		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			if c.markCurrentKeyFailed("http_401") {
				continue
			}
			return NewDataSourceError(oddsAPISourceName, ErrCodeAuthenticationFailed, "all API keys rejected", nil)
		}

		c.checkRateLimit(resp)

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return NewDataSourceError(oddsAPISourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse response", err)
		}
		return nil
	}

	return NewDataSourceError(oddsAPISourceName, ErrCodeAuthenticationFailed, "all API keys rejected", nil)
}

// EventIDForTeam resolves the event id for a team's next game by matching
// the team's full name against the events listing
func (c *OddsAPIClient) EventIDForTeam(ctx context.Context, teamCode string) (string, error) {
	fullName, ok := factors.TeamNameByCode[teamCode]
	if !ok {
		return "", NewDataSourceError(oddsAPISourceName, ErrCodeNotFound, "unknown team code "+teamCode, nil)
	}
	if !c.IsEnabled() {
		return "", NewDataSourceError(oddsAPISourceName, ErrCodeQuotaExhausted, "no usable API key", models.ErrQuotaExhausted)
	}

	var events []oddsEvent
	if cached, found := c.eventsCache.Get(eventsCacheKey); found {
		events = cached.([]oddsEvent)
	} else {
		params := url.Values{"regions": {c.region}}
		if err := c.getJSON(ctx, "/events", params, &events); err != nil {
			return "", err
		}
		c.eventsCache.Set(eventsCacheKey, events, cache.DefaultExpiration)
	}

	target := strings.ToLower(fullName)
	for _, event := range events {
		if strings.Contains(strings.ToLower(event.HomeTeam), target) ||
			strings.Contains(strings.ToLower(event.AwayTeam), target) {
			return event.ID, nil
		}
	}

	return "", NewDataSourceError(oddsAPISourceName, ErrCodeNotFound, "no upcoming event for "+teamCode, nil)
}

// PrefetchEventOdds fetches the whole odds payload for an event in a
// single API call and caches it, so per-player lookups hit the cache
func (c *OddsAPIClient) PrefetchEventOdds(ctx context.Context, eventID string) error {
	if eventID == "" {
		return NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "empty event id", nil)
	}
	if _, found := c.oddsCache.Get(eventID); found {
		return nil
	}

	markets := make([]string, 0, len(models.AllStatCategories)+1)
	for _, category := range models.AllStatCategories {
		markets = append(markets, category.OddsAPIMarketKey())
	}
	markets = append(markets, spreadsMarketKey)

	var payload oddsEventOdds
	params := url.Values{
		"regions":    {c.region},
		"markets":    {strings.Join(markets, ",")},
		"oddsFormat": {"decimal"},
	}
	if err := c.getJSON(ctx, "/events/"+eventID+"/odds", params, &payload); err != nil {
		return err
	}

	c.oddsCache.Set(eventID, &payload, cache.DefaultExpiration)
	return nil
}

// PlayerLine returns the betting line for one (player, market) pair. The
// event payload is fetched once and shared across markets and players.
func (c *OddsAPIClient) PlayerLine(ctx context.Context, eventID, playerName string, market models.StatCategory) (*models.BettingLine, error) {
	if cached, found := c.oddsCache.Get(eventID); found {
		if c.logger != nil {
			c.logger.LogCacheHit("event_odds", eventID)
		}
		return c.parseLine(cached.(*oddsEventOdds), playerName, market)
	}

	if err := c.PrefetchEventOdds(ctx, eventID); err != nil {
		return nil, err
	}

	cached, found := c.oddsCache.Get(eventID)
	if !found {
		return nil, models.ErrNoLineAvailable
	}
	return c.parseLine(cached.(*oddsEventOdds), playerName, market)
}

// TeamSpread returns the bookmaker point spread for a team in an event,
// negative when the team is the favourite. The payload fetched for the
// player markets already carries the spreads market, so this costs no
// extra API call.
func (c *OddsAPIClient) TeamSpread(ctx context.Context, eventID, teamCode string) (float64, error) {
	fullName, ok := factors.TeamNameByCode[teamCode]
	if !ok {
		return 0, NewDataSourceError(oddsAPISourceName, ErrCodeNotFound, "unknown team code "+teamCode, nil)
	}

	if cached, found := c.oddsCache.Get(eventID); found {
		return c.parseSpread(cached.(*oddsEventOdds), fullName)
	}

	if err := c.PrefetchEventOdds(ctx, eventID); err != nil {
		return 0, err
	}

	cached, found := c.oddsCache.Get(eventID)
	if !found {
		return 0, models.ErrNoLineAvailable
	}
	return c.parseSpread(cached.(*oddsEventOdds), fullName)
}

// parseSpread extracts the team's handicap from the spreads market of
// the first bookmaker pricing it, in preference order
func (c *OddsAPIClient) parseSpread(payload *oddsEventOdds, teamName string) (float64, error) {
	target := strings.ToLower(teamName)

	for _, bookmaker := range c.orderedBookmakers(payload.Bookmakers) {
		for _, m := range bookmaker.Markets {
			if m.Key != spreadsMarketKey {
				continue
			}
			for _, o := range m.Outcomes {
				if o.Point != nil && strings.Contains(strings.ToLower(o.Name), target) {
					return *o.Point, nil
				}
			}
		}
	}

	return 0, models.ErrNoLineAvailable
}

// parseLine walks the bookmakers in preference order and extracts the
// most commonly offered point for the player in the given market
func (c *OddsAPIClient) parseLine(payload *oddsEventOdds, playerName string, market models.StatCategory) (*models.BettingLine, error) {
	target := NormalizeName(playerName)
	marketKey := market.OddsAPIMarketKey()

	for _, bookmaker := range c.orderedBookmakers(payload.Bookmakers) {
		for _, m := range bookmaker.Markets {
			if m.Key != marketKey {
				continue
			}

			var playerOutcomes []oddsOutcome
			for _, o := range m.Outcomes {
				if NormalizeName(o.Description) == target {
					playerOutcomes = append(playerOutcomes, o)
				}
			}
			if len(playerOutcomes) == 0 {
				continue
			}

			point := mostCommonPoint(playerOutcomes)
			if point == nil {
				continue
			}

			line := &models.BettingLine{
				Market:    market,
				Line:      *point,
				Bookmaker: bookmaker.Title,
				FetchedAt: time.Now(),
				TTL:       c.lineTTL,
			}
			for _, o := range playerOutcomes {
				if o.Point == nil || *o.Point != *point {
					continue
				}
				price, ok := parsePrice(o.Price)
				if !ok {
					continue
				}
				switch strings.ToLower(o.Name) {
				case "over":
					line.OverPrice = &price
				case "under":
					line.UnderPrice = &price
				}
			}

			if line.OverPrice != nil || line.UnderPrice != nil {
				return line, nil
			}
		}
	}

	return nil, models.ErrNoLineAvailable
}

// orderedBookmakers sorts bookmakers by the configured preference. With
// no preference configured bet365 is tried first, then everyone else.
func (c *OddsAPIClient) orderedBookmakers(bookmakers []oddsBookmaker) []oddsBookmaker {
	preferred := c.preferredBookmakers
	if len(preferred) == 0 {
		preferred = []string{"bet365"}
	}

	ordered := make([]oddsBookmaker, 0, len(bookmakers))
	taken := make(map[int]bool, len(bookmakers))

	for _, pref := range preferred {
		for i, b := range bookmakers {
			if taken[i] {
				continue
			}
			if strings.Contains(strings.ToLower(b.Title), pref) {
				ordered = append(ordered, b)
				taken[i] = true
			}
		}
	}
	for i, b := range bookmakers {
		if !taken[i] {
			ordered = append(ordered, b)
		}
	}

	return ordered
}

// mostCommonPoint picks the point offered by the most outcomes, so a
// bookmaker listing alternate lines resolves to its main line
func mostCommonPoint(outcomes []oddsOutcome) *float64 {
	counts := make(map[float64]int)
	for _, o := range outcomes {
		if o.Point != nil {
			counts[*o.Point]++
		}
	}

	var best *float64
	bestCount := 0
	for point, count := range counts {
		if count > bestCount {
			p := point
			best = &p
			bestCount = count
		}
	}

	if best == nil {
		for _, o := range outcomes {
			if o.Point != nil {
				return o.Point
			}
		}
	}
	return best
}

// parsePrice converts a JSON price into decimal odds
func parsePrice(raw json.Number) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(raw.String())
	if err != nil || d.LessThanOrEqual(decimal.NewFromInt(0)) {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// NormalizeName lowercases a player name and strips diacritics, so
// "Luka Dončić" and "luka doncic" compare equal
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}
