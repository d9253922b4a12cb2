package strategy

import (
	"context"
	"fmt"

	"github.com/relaxationvid13/signal-bot/internal/calculator"
	"github.com/relaxationvid13/signal-bot/internal/model"
)

// FavoriteFirstHalf signals a first-half over 0.5 when a short-priced 1x2
// favorite with scoring form meets an underdog that keeps conceding.
type FavoriteFirstHalf struct {
	lastN       int
	maxPrice    float64
	minScored   float64
	minConceded float64
}

func (s *FavoriteFirstHalf) Name() string { return "favorite_fh_over05" }

func (s *FavoriteFirstHalf) Evaluate(ctx context.Context, fx model.Fixture, feed Feed) (*Verdict, error) {
	odds, err := feed.Odds1X2(ctx, fx.ID)
	if err != nil {
		return failOrAbort(ctx, "1x2 odds unavailable", err)
	}
	favHome, price := odds.Favorite()
	if price < 1.01 || price > 10 {
		return fail(fmt.Sprintf("implausible 1x2 price %.2f", price)), nil
	}
	if price > s.maxPrice {
		return fail(fmt.Sprintf("favorite price %.2f above %.2f", price, s.maxPrice)), nil
	}

	fav, dog := fx.Home, fx.Away
	if !favHome {
		fav, dog = fx.Away, fx.Home
	}

	favLast, err := feed.LastResults(ctx, fav.ID, s.lastN)
	if err != nil {
		return failOrAbort(ctx, "favorite form unavailable", err)
	}
	dogLast, err := feed.LastResults(ctx, dog.ID, s.lastN)
	if err != nil {
		return failOrAbort(ctx, "underdog form unavailable", err)
	}
	if len(favLast) < minHistory || len(dogLast) < minHistory {
		return fail(fmt.Sprintf("recent form too short: favorite %d, underdog %d", len(favLast), len(dogLast))), nil
	}

	favScored, err := calculator.AverageScored(favLast)
	if err != nil {
		return fail(err.Error()), nil
	}
	dogConceded, err := calculator.AverageConceded(dogLast)
	if err != nil {
		return fail(err.Error()), nil
	}
	if favScored < s.minScored {
		return fail(fmt.Sprintf("favorite scores %.2f per game, need %.2f", favScored, s.minScored)), nil
	}
	if dogConceded < s.minConceded {
		return fail(fmt.Sprintf("underdog concedes %.2f per game, need %.2f", dogConceded, s.minConceded)), nil
	}

	return &Verdict{
		Pass:       true,
		Market:     model.Market{Side: model.Over, Line: 0.5, Scope: model.FirstHalf},
		Price:      price,
		Favorite:   fav.Name,
		Commentary: fmt.Sprintf("Ср. забитых фаворита: %.2f | ср. пропущенных соперника: %.2f", favScored, dogConceded),
		Values: map[string]float64{
			"fav_price":    price,
			"fav_scored":   favScored,
			"dog_conceded": dogConceded,
		},
	}, nil
}
