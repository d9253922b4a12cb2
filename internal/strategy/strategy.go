package strategy

import (
	"context"
	"fmt"

	"github.com/relaxationvid13/signal-bot/internal/model"
)

// minHistory is the fewest recent results a form-based check will accept.
const minHistory = 2

// Feed is the slice of the data source a strategy reads during evaluation.
// collector.Fetcher satisfies it.
type Feed interface {
	LastResults(ctx context.Context, teamID int64, n int) ([]model.TeamResult, error)
	HeadToHead(ctx context.Context, homeID, awayID int64, n int) ([]model.MatchScore, error)
	Odds1X2(ctx context.Context, fixtureID int64) (*model.Odds1X2, error)
	MarketPrice(ctx context.Context, fixtureID int64, market model.Market) (float64, error)
}

// Verdict is the result of evaluating one fixture.
type Verdict struct {
	Pass       bool
	Reason     string // set when Pass is false
	Market     model.Market
	Price      float64 // 0 when no price was obtainable
	Favorite   string  // favorite team name, when the strategy picks one
	Commentary string  // display detail for the signal message
	Values     map[string]float64
}

// Strategy decides whether a fixture qualifies as a signal. Evaluation is
// pure apart from reads delegated to the Feed. Missing or insufficient data
// fails the fixture, never passes it.
type Strategy interface {
	Name() string
	Evaluate(ctx context.Context, fx model.Fixture, feed Feed) (*Verdict, error)
}

// Params carries every tunable threshold; each strategy reads the fields it
// uses. All configured bounds are inclusive.
type Params struct {
	LastN       int
	MaxPrice    float64
	MinScored   float64
	MinConceded float64

	MinAverageGoals float64
	PriceMin        float64
	PriceMax        float64
	Line            float64

	H2HLastN    int
	H2HMinTotal int
}

// New returns the named strategy configured with p.
func New(name string, p Params) (Strategy, error) {
	switch name {
	case "favorite_fh_over05":
		return &FavoriteFirstHalf{
			lastN:       p.LastN,
			maxPrice:    p.MaxPrice,
			minScored:   p.MinScored,
			minConceded: p.MinConceded,
		}, nil
	case "goals_over":
		return &GoalsOver{
			lastN:    p.LastN,
			minAvg:   p.MinAverageGoals,
			priceMin: p.PriceMin,
			priceMax: p.PriceMax,
			line:     p.Line,
		}, nil
	case "h2h_over":
		return &HeadToHeadOver{
			lastN:    p.H2HLastN,
			minTotal: p.H2HMinTotal,
			line:     p.Line,
		}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

func fail(reason string) *Verdict { return &Verdict{Reason: reason} }

// failOrAbort converts a feed error into a fail-closed verdict, aborting only
// when the context itself is done.
func failOrAbort(ctx context.Context, reason string, err error) (*Verdict, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return fail(fmt.Sprintf("%s: %v", reason, err)), nil
}
