package calculator

import (
	"errors"

	"github.com/relaxationvid13/signal-bot/internal/model"
)

// AverageScored returns the mean goals scored per match across the given
// results (each from the team's own perspective).
func AverageScored(results []model.TeamResult) (float64, error) {
	if len(results) == 0 {
		return 0, errors.New("no results for scored average")
	}
	sum := 0
	for _, r := range results {
		sum += r.Scored
	}
	return float64(sum) / float64(len(results)), nil
}

// AverageConceded returns the mean goals conceded per match.
func AverageConceded(results []model.TeamResult) (float64, error) {
	if len(results) == 0 {
		return 0, errors.New("no results for conceded average")
	}
	sum := 0
	for _, r := range results {
		sum += r.Conceded
	}
	return float64(sum) / float64(len(results)), nil
}

// AverageTotal returns the mean combined goal count (scored plus conceded)
// per match.
func AverageTotal(results []model.TeamResult) (float64, error) {
	if len(results) == 0 {
		return 0, errors.New("no results for total average")
	}
	sum := 0
	for _, r := range results {
		sum += r.Scored + r.Conceded
	}
	return float64(sum) / float64(len(results)), nil
}

// MinTotal returns the lowest combined goal count among the given meetings.
func MinTotal(scores []model.MatchScore) (int, error) {
	if len(scores) == 0 {
		return 0, errors.New("no meetings for minimum total")
	}
	min := scores[0].Total()
	for _, sc := range scores[1:] {
		if t := sc.Total(); t < min {
			min = t
		}
	}
	return min, nil
}

// EveryTotalAtLeast reports whether every meeting produced at least min
// combined goals. An empty slice reports false.
func EveryTotalAtLeast(scores []model.MatchScore, min int) bool {
	if len(scores) == 0 {
		return false
	}
	for _, sc := range scores {
		if sc.Total() < min {
			return false
		}
	}
	return true
}
