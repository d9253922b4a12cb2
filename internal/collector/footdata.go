package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/relaxationvid13/signal-bot/internal/model"
)

// FootdataFetcher implements Fetcher against the footdata REST API.
type FootdataFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFootdataFetcher creates a new fetcher with optional proxy support.
func NewFootdataFetcher(baseURL, apiKey, proxyURL string) *FootdataFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FootdataFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FootdataFetcher) Name() string { return "footdata" }

// fdFixture is the fixture shape returned by the footdata API.
type fdFixture struct {
	ID      int64  `json:"id"`
	League  string `json:"league"`
	Kickoff int64  `json:"kickoff"`
	Status  string `json:"status"`
	Home    struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"home"`
	Away struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"away"`
}

func (f *FootdataFetcher) FixturesByDate(ctx context.Context, date time.Time) ([]model.Fixture, error) {
	endpoint := fmt.Sprintf("%s/v1/fixtures?date=%s", f.BaseURL, date.Format("2006-01-02"))
	var raw []fdFixture
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch fixtures: %w", err)
	}
	fixtures := make([]model.Fixture, len(raw))
	for i, r := range raw {
		fixtures[i] = model.Fixture{
			ID:        r.ID,
			League:    r.League,
			Home:      model.Team{ID: r.Home.ID, Name: r.Home.Name},
			Away:      model.Team{ID: r.Away.ID, Name: r.Away.Name},
			KickoffAt: time.Unix(r.Kickoff, 0),
			Status:    parseStatus(r.Status),
		}
	}
	// Ensure kickoff order
	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i].KickoffAt.Before(fixtures[j].KickoffAt) })
	return fixtures, nil
}

func (f *FootdataFetcher) LastResults(ctx context.Context, teamID int64, n int) ([]model.TeamResult, error) {
	endpoint := fmt.Sprintf("%s/v1/teams/%d/results?limit=%d", f.BaseURL, teamID, n)
	var raw []struct {
		GoalsFor     int `json:"goals_for"`
		GoalsAgainst int `json:"goals_against"`
	}
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch team %d results: %w", teamID, err)
	}
	results := make([]model.TeamResult, len(raw))
	for i, r := range raw {
		results[i] = model.TeamResult{Scored: r.GoalsFor, Conceded: r.GoalsAgainst}
	}
	return results, nil
}

func (f *FootdataFetcher) HeadToHead(ctx context.Context, homeID, awayID int64, n int) ([]model.MatchScore, error) {
	endpoint := fmt.Sprintf("%s/v1/h2h?home=%d&away=%d&limit=%d", f.BaseURL, homeID, awayID, n)
	var raw []struct {
		HomeGoals int `json:"home_goals"`
		AwayGoals int `json:"away_goals"`
	}
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch h2h %d vs %d: %w", homeID, awayID, err)
	}
	scores := make([]model.MatchScore, len(raw))
	for i, r := range raw {
		scores[i] = model.MatchScore{HomeGoals: r.HomeGoals, AwayGoals: r.AwayGoals}
	}
	return scores, nil
}

func (f *FootdataFetcher) Odds1X2(ctx context.Context, fixtureID int64) (*model.Odds1X2, error) {
	endpoint := fmt.Sprintf("%s/v1/fixtures/%d/odds/1x2", f.BaseURL, fixtureID)
	var raw struct {
		Home float64 `json:"home"`
		Draw float64 `json:"draw"`
		Away float64 `json:"away"`
	}
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch 1x2 odds for fixture %d: %w", fixtureID, err)
	}
	return &model.Odds1X2{Home: raw.Home, Draw: raw.Draw, Away: raw.Away}, nil
}

func (f *FootdataFetcher) MarketPrice(ctx context.Context, fixtureID int64, market model.Market) (float64, error) {
	endpoint := fmt.Sprintf("%s/v1/fixtures/%d/odds?market=%s", f.BaseURL, fixtureID, url.QueryEscape(market.Code()))
	var raw struct {
		Price float64 `json:"price"`
	}
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return 0, fmt.Errorf("fetch %s price for fixture %d: %w", market.Code(), fixtureID, err)
	}
	return raw.Price, nil
}

func (f *FootdataFetcher) Result(ctx context.Context, fixtureID int64) (*model.FixtureResult, error) {
	endpoint := fmt.Sprintf("%s/v1/fixtures/%d/result", f.BaseURL, fixtureID)
	var raw struct {
		Status    string `json:"status"`
		HomeGoals *int   `json:"home_goals"`
		AwayGoals *int   `json:"away_goals"`
		HalfHome  *int   `json:"ht_home"`
		HalfAway  *int   `json:"ht_away"`
	}
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch result for fixture %d: %w", fixtureID, err)
	}
	return &model.FixtureResult{
		Status:    parseStatus(raw.Status),
		HomeGoals: raw.HomeGoals,
		AwayGoals: raw.AwayGoals,
		HalfHome:  raw.HalfHome,
		HalfAway:  raw.HalfAway,
	}, nil
}

func (f *FootdataFetcher) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseStatus maps the API status string to a FixtureStatus. Unknown strings
// map to SCHEDULED so a new upstream status never settles a bet by accident.
func parseStatus(s string) model.FixtureStatus {
	switch s {
	case "scheduled", "not_started":
		return model.StatusScheduled
	case "in_play", "live", "half_time":
		return model.StatusInPlay
	case "finished", "after_extra_time", "after_penalties":
		return model.StatusFinished
	case "cancelled", "abandoned":
		return model.StatusCancelled
	case "postponed":
		return model.StatusPostponed
	default:
		return model.StatusScheduled
	}
}
