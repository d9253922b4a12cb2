package model

import "time"

// FixtureStatus is the lifecycle state reported by the data source.
type FixtureStatus string

const (
	StatusScheduled FixtureStatus = "SCHEDULED"
	StatusInPlay    FixtureStatus = "IN_PLAY"
	StatusFinished  FixtureStatus = "FINISHED"
	StatusCancelled FixtureStatus = "CANCELLED"
	StatusPostponed FixtureStatus = "POSTPONED"
)

// Team identifies one side of a fixture.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Fixture is one scheduled or in-progress match as listed by the data source.
type Fixture struct {
	ID        int64         `json:"id"`
	League    string        `json:"league"`
	Home      Team          `json:"home"`
	Away      Team          `json:"away"`
	KickoffAt time.Time     `json:"kickoff_at"`
	Status    FixtureStatus `json:"status"`
}

// FixtureResult is the final (or current) score of a fixture. Goal fields are
// pointers: an absent field means the source did not report it, never zero.
type FixtureResult struct {
	Status    FixtureStatus
	HomeGoals *int
	AwayGoals *int
	HalfHome  *int
	HalfAway  *int
}

// TeamResult is one past match from the team's own perspective.
type TeamResult struct {
	Scored   int
	Conceded int
}

// MatchScore is one head-to-head meeting between two teams.
type MatchScore struct {
	HomeGoals int
	AwayGoals int
}

// Total returns the combined goal count of the meeting.
func (m MatchScore) Total() int { return m.HomeGoals + m.AwayGoals }

// Odds1X2 holds the three-way match odds for a fixture.
type Odds1X2 struct {
	Home float64
	Draw float64
	Away float64
}

// Favorite returns the shorter-priced side of the 1x2 market. A tie counts
// as the home side.
func (o Odds1X2) Favorite() (home bool, price float64) {
	if o.Home <= o.Away {
		return true, o.Home
	}
	return false, o.Away
}
