package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/relaxationvid13/signal-bot/internal/model"
	"github.com/relaxationvid13/signal-bot/internal/state"
)

// ResultSource supplies final fixture results. collector.Fetcher satisfies it.
type ResultSource interface {
	Result(ctx context.Context, fixtureID int64) (*model.FixtureResult, error)
}

// Builder resolves signal outcomes and aggregates them into reports.
type Builder struct {
	store *state.Store
	src   ResultSource
}

// NewBuilder creates a Builder over the given store and result source.
func NewBuilder(store *state.Store, src ResultSource) *Builder {
	return &Builder{store: store, src: src}
}

// Settled pairs a freshly settled signal with its day bucket.
type Settled struct {
	Day    string
	Signal model.Signal
}

// Settle resolves one signal's outcome. An already-settled signal returns its
// stored outcome without touching the data source. An unfinished fixture, or
// a failed fetch, leaves the signal open for the next settlement attempt; a
// signal is never marked lost because its result could not be read.
func (b *Builder) Settle(ctx context.Context, dayKey string, sig *model.Signal) (model.Outcome, error) {
	if sig.Settled() {
		return sig.Outcome, nil
	}
	res, err := b.src.Result(ctx, sig.FixtureID)
	if err != nil {
		return "", fmt.Errorf("result for fixture %d: %w", sig.FixtureID, err)
	}
	switch res.Status {
	case model.StatusCancelled:
		b.write(dayKey, sig, model.OutcomeVoid, "")
		return model.OutcomeVoid, nil
	case model.StatusFinished:
	default:
		// Scheduled, in play or postponed: still open.
		return "", nil
	}
	total, score, ok := scopeTotal(sig.Market.Scope, res)
	if !ok {
		log.Printf("[WARN] fixture %d finished without %s score, leaving open", sig.FixtureID, sig.Market.Scope)
		return "", nil
	}
	outcome := classify(sig.Market, total)
	b.write(dayKey, sig, outcome, score)
	return outcome, nil
}

// SettleRange settles every open signal in the inclusive day range. Fetch
// failures leave the signal open and the next scheduled report retries it.
// Returns the signals settled by this pass.
func (b *Builder) SettleRange(ctx context.Context, from, to time.Time) []Settled {
	var settled []Settled
	for d, end := dayStart(from), dayStart(to); !d.After(end); d = d.AddDate(0, 0, 1) {
		day := state.DayKey(d)
		for _, sig := range b.store.SignalsOn(day) {
			if sig.Settled() {
				continue
			}
			sig := sig
			outcome, err := b.Settle(ctx, day, &sig)
			if err != nil {
				log.Printf("[WARN] settle fixture %d: %v", sig.FixtureID, err)
				continue
			}
			if outcome != "" {
				settled = append(settled, Settled{Day: day, Signal: sig})
			}
		}
	}
	return settled
}

func (b *Builder) write(dayKey string, sig *model.Signal, outcome model.Outcome, score string) {
	if b.store.SetOutcome(dayKey, sig.FixtureID, outcome, score) {
		now := time.Now()
		sig.Outcome = outcome
		sig.FinalScore = score
		sig.SettledAt = &now
	}
}

// scopeTotal extracts the goal total the market settles on, plus the score
// string for display. ok is false when the required score fields are absent;
// absence is missing data, never zero.
func scopeTotal(scope model.MarketScope, res *model.FixtureResult) (total int, score string, ok bool) {
	if scope == model.FirstHalf {
		if res.HalfHome == nil || res.HalfAway == nil {
			return 0, "", false
		}
		return *res.HalfHome + *res.HalfAway, fmt.Sprintf("%d:%d", *res.HalfHome, *res.HalfAway), true
	}
	if res.HomeGoals == nil || res.AwayGoals == nil {
		return 0, "", false
	}
	return *res.HomeGoals + *res.AwayGoals, fmt.Sprintf("%d:%d", *res.HomeGoals, *res.AwayGoals), true
}

// classify applies push-on-the-number symmetrically: a total landing exactly
// on an integer line is a push for both over and under. Half lines can never
// land on the number.
func classify(m model.Market, total int) model.Outcome {
	t := float64(total)
	if t == m.Line {
		return model.OutcomePush
	}
	switch m.Side {
	case model.Under:
		if t < m.Line {
			return model.OutcomeWin
		}
	default:
		if t > m.Line {
			return model.OutcomeWin
		}
	}
	return model.OutcomeLoss
}

// Report aggregates settled and open signals over a window.
type Report struct {
	Total   int
	Wins    int
	Losses  int
	Pushes  int
	Voids   int
	Pending int
	Profit  decimal.Decimal
}

// PassRate returns wins/(wins+losses) as a percentage. Pushes, voids and
// open signals stay out of the denominator. ok is false while nothing is
// settled.
func (r Report) PassRate() (rate float64, ok bool) {
	n := r.Wins + r.Losses
	if n == 0 {
		return 0, false
	}
	return float64(r.Wins) / float64(n) * 100, true
}

// Summarize tallies outcomes and unit profit for the given signals.
func Summarize(signals []model.Signal) Report {
	rep := Report{Total: len(signals), Profit: decimal.Zero}
	for _, sig := range signals {
		switch sig.Outcome {
		case model.OutcomeWin:
			rep.Wins++
		case model.OutcomeLoss:
			rep.Losses++
		case model.OutcomePush:
			rep.Pushes++
		case model.OutcomeVoid:
			rep.Voids++
		default:
			rep.Pending++
		}
		rep.Profit = rep.Profit.Add(ProfitOf(sig))
	}
	return rep
}

// ProfitOf returns the one-unit-stake profit of a signal: price-1 per win
// when a price is known (one unit otherwise), -1 per loss, 0 for pushes,
// voids and open signals.
func ProfitOf(sig model.Signal) decimal.Decimal {
	switch sig.Outcome {
	case model.OutcomeWin:
		if sig.Price > 0 {
			return decimal.NewFromFloat(sig.Price).Sub(decimal.NewFromInt(1))
		}
		return decimal.NewFromInt(1)
	case model.OutcomeLoss:
		return decimal.NewFromInt(-1)
	default:
		return decimal.Zero
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
