package strategy

import (
	"context"
	"fmt"

	"github.com/relaxationvid13/signal-bot/internal/calculator"
	"github.com/relaxationvid13/signal-bot/internal/model"
)

// HeadToHeadOver signals a full-time over when the teams' recent meetings
// all produced at least the configured goal count.
type HeadToHeadOver struct {
	lastN    int
	minTotal int
	line     float64
}

func (s *HeadToHeadOver) Name() string { return "h2h_over" }

func (s *HeadToHeadOver) Evaluate(ctx context.Context, fx model.Fixture, feed Feed) (*Verdict, error) {
	scores, err := feed.HeadToHead(ctx, fx.Home.ID, fx.Away.ID, s.lastN)
	if err != nil {
		return failOrAbort(ctx, "head-to-head history unavailable", err)
	}
	if len(scores) < s.lastN {
		return fail(fmt.Sprintf("only %d head-to-head meetings, need %d", len(scores), s.lastN)), nil
	}
	if !calculator.EveryTotalAtLeast(scores, s.minTotal) {
		min, _ := calculator.MinTotal(scores)
		return fail(fmt.Sprintf("meeting with %d goals below %d", min, s.minTotal)), nil
	}
	min, err := calculator.MinTotal(scores)
	if err != nil {
		return fail(err.Error()), nil
	}

	market := model.Market{Side: model.Over, Line: s.line, Scope: model.FullTime}
	values := map[string]float64{
		"meetings":  float64(len(scores)),
		"min_total": float64(min),
	}
	// The h2h rule does not gate on odds; the price is informational only.
	price, err := feed.MarketPrice(ctx, fx.ID, market)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		price = 0
	} else {
		values["price"] = price
	}

	return &Verdict{
		Pass:       true,
		Market:     market,
		Price:      price,
		Commentary: fmt.Sprintf("Очные встречи: %d подряд с тоталом ≥ %d", len(scores), s.minTotal),
		Values:     values,
	}, nil
}
