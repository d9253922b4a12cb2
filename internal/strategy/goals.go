package strategy

import (
	"context"
	"fmt"

	"github.com/relaxationvid13/signal-bot/internal/calculator"
	"github.com/relaxationvid13/signal-bot/internal/model"
)

// GoalsOver signals a full-time over when both teams' recent matches average
// enough combined goals and the market price sits inside the configured band.
type GoalsOver struct {
	lastN    int
	minAvg   float64
	priceMin float64
	priceMax float64
	line     float64
}

func (s *GoalsOver) Name() string { return "goals_over" }

func (s *GoalsOver) Evaluate(ctx context.Context, fx model.Fixture, feed Feed) (*Verdict, error) {
	homeLast, err := feed.LastResults(ctx, fx.Home.ID, s.lastN)
	if err != nil {
		return failOrAbort(ctx, "home form unavailable", err)
	}
	awayLast, err := feed.LastResults(ctx, fx.Away.ID, s.lastN)
	if err != nil {
		return failOrAbort(ctx, "away form unavailable", err)
	}
	if len(homeLast) < minHistory || len(awayLast) < minHistory {
		return fail(fmt.Sprintf("recent form too short: home %d, away %d", len(homeLast), len(awayLast))), nil
	}

	homeAvg, err := calculator.AverageTotal(homeLast)
	if err != nil {
		return fail(err.Error()), nil
	}
	awayAvg, err := calculator.AverageTotal(awayLast)
	if err != nil {
		return fail(err.Error()), nil
	}
	combined := (homeAvg + awayAvg) / 2
	if combined < s.minAvg {
		return fail(fmt.Sprintf("combined average %.2f below %.2f", combined, s.minAvg)), nil
	}

	market := model.Market{Side: model.Over, Line: s.line, Scope: model.FullTime}
	price, err := feed.MarketPrice(ctx, fx.ID, market)
	if err != nil {
		return failOrAbort(ctx, "market price unavailable", err)
	}
	if price < s.priceMin || price > s.priceMax {
		return fail(fmt.Sprintf("price %.2f outside %.2f-%.2f", price, s.priceMin, s.priceMax)), nil
	}

	return &Verdict{
		Pass:       true,
		Market:     market,
		Price:      price,
		Commentary: fmt.Sprintf("Ср. тотал: дома %.2f | в гостях %.2f | общий %.2f", homeAvg, awayAvg, combined),
		Values: map[string]float64{
			"home_avg_total": homeAvg,
			"away_avg_total": awayAvg,
			"combined_avg":   combined,
			"price":          price,
		},
	}, nil
}
