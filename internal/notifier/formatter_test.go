package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/relaxationvid13/signal-bot/internal/model"
	"github.com/relaxationvid13/signal-bot/internal/report"
)

func TestFormatSignal(t *testing.T) {
	sig := model.Signal{
		FixtureID:  7,
		League:     "England Premier League",
		Home:       "Arsenal",
		Away:       "Luton",
		Market:     model.Market{Side: model.Over, Line: 0.5, Scope: model.FirstHalf},
		Price:      1.40,
		Favorite:   "Arsenal",
		Commentary: "Ср. забитых фаворита: 1.80 | ср. пропущенных соперника: 1.40",
	}
	msg := FormatSignal("Сигналы (ежедневный скан)", sig)
	for _, want := range []string{
		"Сигналы (ежедневный скан)",
		"England Premier League",
		"Arsenal — Luton",
		"Фаворит: <b>Arsenal</b>",
		"ТБ 0.5 (1-й тайм)",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("signal message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatDailyReport(t *testing.T) {
	now := time.Now()
	signals := []model.Signal{
		{Home: "Arsenal", Away: "Luton", Market: model.Market{Side: model.Over, Line: 0.5, Scope: model.FirstHalf},
			Price: 1.40, Outcome: model.OutcomeWin, FinalScore: "1:0", SettledAt: &now},
		{Home: "Milan", Away: "Como", Market: model.Market{Side: model.Over, Line: 2.5, Scope: model.FullTime},
			Price: 1.80, Outcome: model.OutcomeLoss, FinalScore: "1:1", SettledAt: &now},
	}
	msg := FormatDailyReport("2025-08-19", signals, report.Summarize(signals))
	for _, want := range []string{
		"Отчёт за день",
		"2025-08-19",
		"✅ Arsenal — Luton",
		"❌ Milan — Como",
		"ТБ 2.5",
		"1:1",
		"✅ 1",
		"❌ 1",
		// 0.40 from the winner minus the lost unit.
		"-0.60",
		"50.0%",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("daily report missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatDailyReport_Empty(t *testing.T) {
	msg := FormatDailyReport("2025-08-19", nil, report.Summarize(nil))
	if !strings.Contains(msg, "Сигналов: <b>0</b>") {
		t.Errorf("empty report should state the zero count:\n%s", msg)
	}
	if strings.Contains(msg, "Прибыль") {
		t.Errorf("empty report should omit the tally:\n%s", msg)
	}
}

func TestFormatPeriodReports(t *testing.T) {
	now := time.Now()
	signals := []model.Signal{
		{Home: "Arsenal", Away: "Luton", Outcome: model.OutcomeWin, SettledAt: &now},
	}
	rep := report.Summarize(signals)

	weekly := FormatWeeklyReport("2025-08-18", "2025-08-24", rep)
	if !strings.Contains(weekly, "Недельная сводка") || !strings.Contains(weekly, "2025-08-18 — 2025-08-24") {
		t.Errorf("unexpected weekly report:\n%s", weekly)
	}
	monthly := FormatMonthlyReport("2025-08-01", "2025-08-31", rep)
	if !strings.Contains(monthly, "Месячная сводка") {
		t.Errorf("unexpected monthly report:\n%s", monthly)
	}
	// A priceless winner counts one even unit.
	if !strings.Contains(monthly, "+1.00") {
		t.Errorf("expected +1.00 units in:\n%s", monthly)
	}
}

func TestFormatMarkers(t *testing.T) {
	msg := FormatMarkers([]string{"scan", "daily_report"}, map[string]string{"scan": "2025-08-23"})
	if !strings.Contains(msg, "scan: 2025-08-23") {
		t.Errorf("expected the set marker, got:\n%s", msg)
	}
	if !strings.Contains(msg, "daily_report: —") {
		t.Errorf("expected a dash for the unset marker, got:\n%s", msg)
	}
}
