package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

const espnSourceName = "espn"

// statusProbability maps ESPN injury designations to a 0-100 chance the
// player suits up
var statusProbability = map[models.InjuryStatus]float64{
	models.InjuryOut:          0,
	models.InjuryDoubtful:     25,
	models.InjuryQuestionable: 50,
	models.InjuryDayToDay:     50,
	models.InjuryGTD:          50,
	models.InjuryProbable:     75,
}

// ESPNClient implements RosterProvider against the public ESPN site API,
// which carries injury designations that stats.nba.com does not.
type ESPNClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	enabled    bool
}

// NewESPNClient creates a new ESPN site API client
func NewESPNClient(httpClient *RateLimitedHTTPClient, baseURL string, enabled bool) *ESPNClient {
	if baseURL == "" {
		baseURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba"
	}
	return &ESPNClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		enabled:    enabled,
	}
}

// Name returns the data source name
func (c *ESPNClient) Name() string {
	return espnSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *ESPNClient) IsEnabled() bool {
	return c.enabled
}

// espnRoster is the subset of the team roster payload we read. ESPN
// returns either a flat athletes list or athletes grouped by position
// with an items array, depending on the sport.
type espnRoster struct {
	Athletes []espnAthleteGroup `json:"athletes"`
}

type espnAthleteGroup struct {
	espnAthlete
	Items []espnAthlete `json:"items"`
}

type espnAthlete struct {
	ID       json.Number `json:"id"`
	FullName string      `json:"fullName"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
	Injuries []struct {
		Status string `json:"status"`
	} `json:"injuries"`
}

// FetchRoster retrieves a team's roster with injury designations applied
func (c *ESPNClient) FetchRoster(ctx context.Context, teamCode string) ([]models.PlayerContext, error) {
	if !c.enabled {
		return nil, NewDataSourceError(espnSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	fullURL := fmt.Sprintf("%s/teams/%s/roster", c.baseURL, strings.ToLower(teamCode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, NewDataSourceError(espnSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(espnSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError(espnSourceName, ErrCodeNotFound, "unknown team "+teamCode, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewDataSourceError(espnSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload espnRoster
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(espnSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	roster := make([]models.PlayerContext, 0, len(payload.Athletes))
	for _, group := range payload.Athletes {
		if len(group.Items) > 0 {
			for _, athlete := range group.Items {
				roster = append(roster, toPlayerContext(athlete, teamCode))
			}
			continue
		}
		if group.FullName != "" {
			roster = append(roster, toPlayerContext(group.espnAthlete, teamCode))
		}
	}

	return roster, nil
}

func toPlayerContext(athlete espnAthlete, teamCode string) models.PlayerContext {
	pc := models.PlayerContext{
		FullName:     athlete.FullName,
		TeamCode:     teamCode,
		Position:     athlete.Position.Abbreviation,
		InjuryStatus: models.InjuryHealthy,
	}
	if id, err := athlete.ID.Int64(); err == nil {
		pc.NBAPlayerID = int(id)
	}

	if len(athlete.Injuries) > 0 {
		pc.InjuryStatus = parseInjuryStatus(athlete.Injuries[0].Status)
		if prob, ok := statusProbability[pc.InjuryStatus]; ok {
			pc.PlayProbability = &prob
		}
	}
	return pc
}

// parseInjuryStatus normalizes ESPN's free-form status strings to our
// designations. Anything unrecognized counts as day-to-day rather than
// healthy so an active injury report never inflates a projection.
func parseInjuryStatus(raw string) models.InjuryStatus {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_"))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	switch normalized {
	case "OUT":
		return models.InjuryOut
	case "DOUBTFUL":
		return models.InjuryDoubtful
	case "QUESTIONABLE":
		return models.InjuryQuestionable
	case "PROBABLE":
		return models.InjuryProbable
	case "DAY_TO_DAY":
		return models.InjuryDayToDay
	case "GTD", "GAME_TIME_DECISION":
		return models.InjuryGTD
	case "", "ACTIVE", "HEALTHY":
		return models.InjuryHealthy
	}
	return models.InjuryDayToDay
}
