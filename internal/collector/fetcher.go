package collector

import (
	"context"
	"time"

	"github.com/relaxationvid13/signal-bot/internal/model"
)

// Fetcher defines the interface for fetching football data.
type Fetcher interface {
	FixturesByDate(ctx context.Context, date time.Time) ([]model.Fixture, error)
	LastResults(ctx context.Context, teamID int64, n int) ([]model.TeamResult, error)
	HeadToHead(ctx context.Context, homeID, awayID int64, n int) ([]model.MatchScore, error)
	Odds1X2(ctx context.Context, fixtureID int64) (*model.Odds1X2, error)
	MarketPrice(ctx context.Context, fixtureID int64, market model.Market) (float64, error)
	Result(ctx context.Context, fixtureID int64) (*model.FixtureResult, error)
	Name() string
}
