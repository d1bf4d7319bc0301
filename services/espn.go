package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nfl-pool-go/logging"
	"nfl-pool-go/models"
	"nfl-pool-go/scoring"
)

const (
	espnScoreboardURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard"
	espnRegularSeason = 2
)

// ESPNService fetches game outcomes from the ESPN scoreboard API
type ESPNService struct {
	client     *http.Client
	baseURL    string
	normalizer *scoring.Normalizer
	logger     *logging.Logger
}

// NewESPNService creates a new ESPN service. An empty baseURL uses the public scoreboard.
func NewESPNService(baseURL string, normalizer *scoring.Normalizer) *ESPNService {
	if baseURL == "" {
		baseURL = espnScoreboardURL
	}
	if normalizer == nil {
		normalizer = scoring.NewNormalizer(nil)
	}
	return &ESPNService{
		client:     &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		normalizer: normalizer,
		logger:     logging.WithPrefix("ESPN"),
	}
}

// ESPN API response structures
type ESPNResponse struct {
	Events []ESPNEvent `json:"events"`
}

type ESPNEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Week         ESPNWeek          `json:"week"`
	Season       ESPNSeason        `json:"season"`
	Status       ESPNStatus        `json:"status"`
	Competitions []ESPNCompetition `json:"competitions"`
}

type ESPNSeason struct {
	Year int `json:"year"`
	Type int `json:"type"`
}

type ESPNWeek struct {
	Number int `json:"number"`
}

type ESPNStatus struct {
	Type   ESPNStatusType `json:"type"`
	Period int            `json:"period"`
}

type ESPNStatusType struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Completed bool   `json:"completed"`
}

type ESPNCompetition struct {
	Competitors []ESPNCompetitor `json:"competitors"`
}

type ESPNCompetitor struct {
	ID       string   `json:"id"`
	HomeAway string   `json:"homeAway"`
	Score    string   `json:"score"`
	Winner   bool     `json:"winner"`
	Team     ESPNTeam `json:"team"`
}

type ESPNTeam struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
}

// GetOutcomesForYear fetches every regular-season outcome of a season.
// The NFL season runs from July to January, so the request spans both years.
func (e *ESPNService) GetOutcomesForYear(ctx context.Context, season int) ([]models.GameOutcome, error) {
	startDate := fmt.Sprintf("%d0701", season)
	endDate := fmt.Sprintf("%d0131", season+1)
	url := fmt.Sprintf("%s?dates=%s-%s&limit=1000", e.baseURL, startDate, endDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ESPN request: %w", err)
	}

	e.logger.Debugf("Fetching scoreboard from %s", url)
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ESPN data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ESPN API returned status %d", resp.StatusCode)
	}

	var espnResp ESPNResponse
	if err := json.NewDecoder(resp.Body).Decode(&espnResp); err != nil {
		return nil, fmt.Errorf("failed to decode ESPN response: %w", err)
	}

	outcomes := e.convertToOutcomes(espnResp.Events, season)
	e.logger.Infof("Received %d events, converted %d regular-season outcomes", len(espnResp.Events), len(outcomes))
	return outcomes, nil
}

// convertToOutcomes keeps regular-season events with two competitors
func (e *ESPNService) convertToOutcomes(events []ESPNEvent, season int) []models.GameOutcome {
	outcomes := make([]models.GameOutcome, 0, len(events))

	for _, event := range events {
		if event.Season.Type != espnRegularSeason {
			continue
		}
		if len(event.Competitions) == 0 || len(event.Competitions[0].Competitors) < 2 {
			continue
		}
		if !models.IsValidWeek(event.Week.Number) {
			continue
		}

		outcome := e.convertEvent(event)
		if outcome.Season == 0 {
			outcome.Season = season
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// convertEvent converts a single ESPN event to a GameOutcome. The winner is
// only set once the game is final: ESPN's winner flag first, then the score.
func (e *ESPNService) convertEvent(event ESPNEvent) models.GameOutcome {
	competition := event.Competitions[0]

	outcome := models.GameOutcome{
		GameID:    event.ID,
		Season:    event.Season.Year,
		Week:      event.Week.Number,
		Status:    convertGameState(event.Status),
		Kickoff:   parseESPNDate(event.Date),
		UpdatedAt: time.Now(),
	}

	var flaggedWinner string
	for _, competitor := range competition.Competitors {
		score, _ := strconv.Atoi(competitor.Score)
		team := e.teamName(competitor.Team)

		if competitor.HomeAway == "home" {
			outcome.HomeTeam = team
			outcome.HomeScore = score
		} else {
			outcome.AwayTeam = team
			outcome.AwayScore = score
		}
		if competitor.Winner {
			flaggedWinner = team
		}
	}

	if outcome.IsFinal() {
		if flaggedWinner != "" {
			outcome.Winner = flaggedWinner
		} else {
			outcome.Winner = models.WinnerFromScores(outcome.HomeTeam, outcome.AwayTeam, outcome.HomeScore, outcome.AwayScore)
		}
	}

	return outcome
}

func (e *ESPNService) teamName(team ESPNTeam) string {
	if canonical, ok := e.normalizer.Lookup(team.Abbreviation); ok {
		return canonical
	}
	return e.normalizer.Normalize(team.DisplayName)
}

// parseESPNDate accepts ESPN's minute and second precision timestamps
func parseESPNDate(raw string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04Z", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// convertGameState maps ESPN's pre/in/post states onto GameStatus
func convertGameState(status ESPNStatus) models.GameStatus {
	switch strings.ToLower(status.Type.State) {
	case "in":
		return models.GameStatusInProgress
	case "post":
		if status.Type.Completed {
			return models.GameStatusFinal
		}
		// postponed or canceled games report "post" without completing
		return models.GameStatusScheduled
	default:
		return models.GameStatusScheduled
	}
}

// HealthCheck verifies ESPN API is accessible
func (e *ESPNService) HealthCheck() bool {
	req, err := http.NewRequest(http.MethodHead, e.baseURL, nil)
	if err != nil {
		return false
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
