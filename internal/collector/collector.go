package collector

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/relaxationvid13/signal-bot/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Fixtures       []model.Fixture
	Results        map[int64][]model.TeamResult
	H2H            []model.MatchScore
	Odds           map[int64]model.Odds1X2
	Prices         map[int64]float64
	FixtureResults map[int64]*model.FixtureResult
	Err            error

	FixtureCalls int
	ResultCalls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FixturesByDate(_ context.Context, _ time.Time) ([]model.Fixture, error) {
	m.FixtureCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Fixtures, nil
}

func (m *MockFetcher) LastResults(_ context.Context, teamID int64, n int) ([]model.TeamResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	results := m.Results[teamID]
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

func (m *MockFetcher) HeadToHead(_ context.Context, _, _ int64, n int) ([]model.MatchScore, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	scores := m.H2H
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores, nil
}

func (m *MockFetcher) Odds1X2(_ context.Context, fixtureID int64) (*model.Odds1X2, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	odds, ok := m.Odds[fixtureID]
	if !ok {
		return nil, fmt.Errorf("no 1x2 odds for fixture %d", fixtureID)
	}
	return &odds, nil
}

func (m *MockFetcher) MarketPrice(_ context.Context, fixtureID int64, _ model.Market) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	price, ok := m.Prices[fixtureID]
	if !ok {
		return 0, fmt.Errorf("no market price for fixture %d", fixtureID)
	}
	return price, nil
}

func (m *MockFetcher) Result(_ context.Context, fixtureID int64) (*model.FixtureResult, error) {
	m.ResultCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	res, ok := m.FixtureResults[fixtureID]
	if !ok {
		return nil, fmt.Errorf("no result for fixture %d", fixtureID)
	}
	return res, nil
}

// Collector narrows the raw fixture list down to scannable candidates.
type Collector struct {
	Fetcher Fetcher
	leagues []string
}

// NewCollector creates a Collector. League keywords are matched
// case-insensitively as substrings of the fixture's league label; an empty
// list admits every league.
func NewCollector(fetcher Fetcher, leagues []string) *Collector {
	kws := make([]string, len(leagues))
	for i, l := range leagues {
		kws[i] = strings.ToLower(l)
	}
	return &Collector{Fetcher: fetcher, leagues: kws}
}

// TodayFixtures returns the day's fixtures from covered leagues that have not
// kicked off yet.
func (c *Collector) TodayFixtures(ctx context.Context, now time.Time) ([]model.Fixture, error) {
	fixtures, err := c.Fetcher.FixturesByDate(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("fixtures for %s: %w", now.Format("2006-01-02"), err)
	}
	var out []model.Fixture
	for _, fx := range fixtures {
		if !c.coveredLeague(fx.League) {
			continue
		}
		if fx.Status != model.StatusScheduled {
			continue
		}
		out = append(out, fx)
	}
	log.Printf("[INFO] %d fixtures listed, %d scannable", len(fixtures), len(out))
	return out, nil
}

func (c *Collector) coveredLeague(league string) bool {
	if len(c.leagues) == 0 {
		return true
	}
	l := strings.ToLower(league)
	for _, kw := range c.leagues {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}
