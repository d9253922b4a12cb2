package model

import "fmt"

// MarketSide is the direction of a totals market.
type MarketSide string

const (
	Over  MarketSide = "OVER"
	Under MarketSide = "UNDER"
)

// MarketScope is the portion of the match a market settles on.
type MarketScope string

const (
	FullTime  MarketScope = "FT"
	FirstHalf MarketScope = "1H"
)

// Market names a totals bet: side, goal line, and scope.
type Market struct {
	Side  MarketSide  `json:"side"`
	Line  float64     `json:"line"`
	Scope MarketScope `json:"scope"`
}

// Code returns the wire identifier used when requesting a price for the
// market, e.g. "over_0.5_1h".
func (m Market) Code() string {
	side := "over"
	if m.Side == Under {
		side = "under"
	}
	scope := "ft"
	if m.Scope == FirstHalf {
		scope = "1h"
	}
	return fmt.Sprintf("%s_%g_%s", side, m.Line, scope)
}

// ExactLine reports whether the line is a whole number, i.e. the final total
// can land exactly on it and the bet pushes.
func (m Market) ExactLine() bool {
	return m.Line == float64(int(m.Line))
}
