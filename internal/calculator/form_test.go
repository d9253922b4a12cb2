package calculator

import (
	"math"
	"testing"

	"github.com/relaxationvid13/signal-bot/internal/model"
)

func TestAverages(t *testing.T) {
	results := []model.TeamResult{
		{Scored: 2, Conceded: 0},
		{Scored: 1, Conceded: 2},
		{Scored: 3, Conceded: 1},
	}
	scored, err := AverageScored(results)
	if err != nil {
		t.Fatalf("AverageScored: %v", err)
	}
	if scored != 2.0 {
		t.Errorf("expected scored average 2.0, got %.2f", scored)
	}
	conceded, err := AverageConceded(results)
	if err != nil {
		t.Fatalf("AverageConceded: %v", err)
	}
	if math.Abs(conceded-1.0) > 1e-9 {
		t.Errorf("expected conceded average 1.0, got %.2f", conceded)
	}
	total, err := AverageTotal(results)
	if err != nil {
		t.Fatalf("AverageTotal: %v", err)
	}
	if total != 3.0 {
		t.Errorf("expected total average 3.0, got %.2f", total)
	}
}

func TestAverages_NoHistory(t *testing.T) {
	if _, err := AverageScored(nil); err == nil {
		t.Error("expected error for empty scored average")
	}
	if _, err := AverageConceded(nil); err == nil {
		t.Error("expected error for empty conceded average")
	}
	if _, err := AverageTotal(nil); err == nil {
		t.Error("expected error for empty total average")
	}
}

func TestMinTotal(t *testing.T) {
	scores := []model.MatchScore{
		{HomeGoals: 2, AwayGoals: 1},
		{HomeGoals: 0, AwayGoals: 2},
		{HomeGoals: 4, AwayGoals: 0},
	}
	min, err := MinTotal(scores)
	if err != nil {
		t.Fatalf("MinTotal: %v", err)
	}
	if min != 2 {
		t.Errorf("expected minimum total 2, got %d", min)
	}
	if _, err := MinTotal(nil); err == nil {
		t.Error("expected error for empty meetings")
	}
}

func TestEveryTotalAtLeast(t *testing.T) {
	scores := []model.MatchScore{
		{HomeGoals: 2, AwayGoals: 1},
		{HomeGoals: 3, AwayGoals: 0},
	}
	if !EveryTotalAtLeast(scores, 3) {
		t.Error("expected every meeting to reach 3 goals")
	}
	if EveryTotalAtLeast(scores, 4) {
		t.Error("did not expect every meeting to reach 4 goals")
	}
	if EveryTotalAtLeast(nil, 1) {
		t.Error("empty history must not satisfy the check")
	}
}
