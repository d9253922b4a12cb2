package model

import "time"

// Outcome is the settled result of a signal. The zero value means the signal
// is still open (fixture unfinished or not yet settled).
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
	OutcomePush Outcome = "PUSH"
	OutcomeVoid Outcome = "VOID"
)

// Signal is one fixture that passed the configured strategy and was reported
// to the chat. Outcome, FinalScore and SettledAt are filled in exactly once
// during settlement and are immutable afterwards.
type Signal struct {
	FixtureID  int64              `json:"fixture_id"`
	League     string             `json:"league"`
	Home       string             `json:"home"`
	Away       string             `json:"away"`
	Strategy   string             `json:"strategy"`
	Market     Market             `json:"market"`
	Price      float64            `json:"price,omitempty"`
	Favorite   string             `json:"favorite,omitempty"`
	Commentary string             `json:"commentary,omitempty"`
	Values     map[string]float64 `json:"values,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	Outcome    Outcome            `json:"outcome,omitempty"`
	FinalScore string             `json:"final_score,omitempty"`
	SettledAt  *time.Time         `json:"settled_at,omitempty"`
}

// Settled reports whether the signal already carries a final outcome.
func (s *Signal) Settled() bool { return s.Outcome != "" }
