package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/factors"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

const (
	nbaStatsSourceName  = "nba_stats"
	nbaStatsDateLayout  = "Jan 02, 2006"
	defaultGameLogLimit = 82
	nbaStatsSeasonType  = "Regular Season"
)

// NBAStatsClient implements GameLogProvider and RosterProvider against
// the stats.nba.com JSON API. The API returns tabular resultSets with a
// headers array and rowSet of mixed-type rows.
type NBAStatsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	enabled    bool
}

// nbaStatsResponse is the generic stats.nba.com envelope
type nbaStatsResponse struct {
	ResultSets []nbaResultSet `json:"resultSets"`
}

type nbaResultSet struct {
	Name    string              `json:"name"`
	Headers []string            `json:"headers"`
	RowSet  [][]json.RawMessage `json:"rowSet"`
}

// NewNBAStatsClient creates a new stats.nba.com client
func NewNBAStatsClient(httpClient *RateLimitedHTTPClient, baseURL string, enabled bool) *NBAStatsClient {
	if baseURL == "" {
		baseURL = "https://stats.nba.com/stats"
	}
	return &NBAStatsClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		enabled:    enabled,
	}
}

// Name returns the data source name
func (c *NBAStatsClient) Name() string {
	return nbaStatsSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *NBAStatsClient) IsEnabled() bool {
	return c.enabled
}

// FetchGameLogs retrieves a player's box scores for a season,
// most-recent-first as stats.nba.com returns them
func (c *NBAStatsClient) FetchGameLogs(ctx context.Context, nbaPlayerID int, season string, limit int) ([]GameLogData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(nbaStatsSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}
	if limit <= 0 {
		limit = defaultGameLogLimit
	}

	params := url.Values{
		"PlayerID":   {fmt.Sprintf("%d", nbaPlayerID)},
		"Season":     {season},
		"SeasonType": {nbaStatsSeasonType},
	}

	var payload nbaStatsResponse
	if err := c.getJSON(ctx, "/playergamelog", params, &payload); err != nil {
		return nil, err
	}

	table, err := resultSet(&payload, "PlayerGameLog")
	if err != nil {
		return nil, err
	}

	index := headerIndex(table.Headers)
	logs := make([]GameLogData, 0, limit)
	for _, row := range table.RowSet {
		if len(logs) >= limit {
			break
		}

		entry := GameLogData{
			NBAGameID:         stringCell(row, index, "Game_ID"),
			Matchup:           stringCell(row, index, "MATCHUP"),
			Points:            intCell(row, index, "PTS"),
			Rebounds:          intCell(row, index, "REB"),
			Assists:           intCell(row, index, "AST"),
			Steals:            intCell(row, index, "STL"),
			Blocks:            intCell(row, index, "BLK"),
			ThreePointersMade: intCell(row, index, "FG3M"),
			MinutesPlayed:     floatCell(row, index, "MIN"),
			FGPercentage:      floatCell(row, index, "FG_PCT"),
		}

		if raw := stringCell(row, index, "GAME_DATE"); raw != "" {
			if parsed, err := time.Parse(nbaStatsDateLayout, raw); err == nil {
				entry.GameDate = parsed
			}
		}

		logs = append(logs, entry)
	}

	return logs, nil
}

// FetchRoster retrieves the current roster for a team. stats.nba.com has
// no injury designations, so every player comes back without one; the
// ESPN provider enriches availability when it is reachable.
func (c *NBAStatsClient) FetchRoster(ctx context.Context, teamCode string) ([]models.PlayerContext, error) {
	if !c.enabled {
		return nil, NewDataSourceError(nbaStatsSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	teamID := nbaTeamIDByCode(teamCode)
	if teamID == 0 {
		return nil, NewDataSourceError(nbaStatsSourceName, ErrCodeNotFound, "unknown team code "+teamCode, nil)
	}

	params := url.Values{
		"TeamID": {fmt.Sprintf("%d", teamID)},
		"Season": {currentSeason(time.Now())},
	}

	var payload nbaStatsResponse
	if err := c.getJSON(ctx, "/commonteamroster", params, &payload); err != nil {
		return nil, err
	}

	table, err := resultSet(&payload, "CommonTeamRoster")
	if err != nil {
		return nil, err
	}

	index := headerIndex(table.Headers)
	roster := make([]models.PlayerContext, 0, len(table.RowSet))
	for _, row := range table.RowSet {
		roster = append(roster, models.PlayerContext{
			NBAPlayerID: intCell(row, index, "PLAYER_ID"),
			FullName:    stringCell(row, index, "PLAYER"),
			TeamCode:    teamCode,
			Position:    stringCell(row, index, "POSITION"),
		})
	}

	return roster, nil
}

// getJSON performs a GET against stats.nba.com with the headers the API
// requires from non-browser clients
func (c *NBAStatsClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	fullURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return NewDataSourceError(nbaStatsSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(nbaStatsSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return NewDataSourceError(nbaStatsSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return NewDataSourceError(nbaStatsSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(nbaStatsSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}

func resultSet(payload *nbaStatsResponse, name string) (*nbaResultSet, error) {
	for i := range payload.ResultSets {
		if payload.ResultSets[i].Name == name {
			return &payload.ResultSets[i], nil
		}
	}
	return nil, NewDataSourceError(nbaStatsSourceName, ErrCodeInvalidData, "missing result set "+name, nil)
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	return index
}

func stringCell(row []json.RawMessage, index map[string]int, header string) string {
	i, ok := index[header]
	if !ok || i >= len(row) {
		return ""
	}
	var s string
	if err := json.Unmarshal(row[i], &s); err != nil {
		return ""
	}
	return s
}

func floatCell(row []json.RawMessage, index map[string]int, header string) float64 {
	i, ok := index[header]
	if !ok || i >= len(row) {
		return 0
	}
	var f float64
	if err := json.Unmarshal(row[i], &f); err != nil {
		return 0
	}
	return f
}

func intCell(row []json.RawMessage, index map[string]int, header string) int {
	return int(floatCell(row, index, header))
}

// nbaTeamIDByCode inverts the franchise id table
func nbaTeamIDByCode(code string) int {
	for id, teamCode := range factors.TeamCodeByNBAID {
		if teamCode == code {
			return id
		}
	}
	return 0
}

// currentSeason formats the NBA season string for a date, e.g. "2025-26"
// for any date from October 2025 through September 2026
func currentSeason(now time.Time) string {
	year := now.Year()
	if now.Month() < time.October {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}
