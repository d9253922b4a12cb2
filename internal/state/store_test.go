package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/relaxationvid13/signal-bot/internal/model"
)

func testSignal(fixtureID int64) model.Signal {
	return model.Signal{
		FixtureID: fixtureID,
		League:    "England Premier League",
		Home:      "Arsenal",
		Away:      "Luton",
		Strategy:  "favorite_fh_over05",
		Market:    model.Market{Side: model.Over, Line: 0.5, Scope: model.FirstHalf},
		Price:     1.40,
		CreatedAt: time.Now(),
	}
}

func TestDayKey(t *testing.T) {
	d := time.Date(2025, time.August, 23, 14, 30, 0, 0, time.UTC)
	if got := DayKey(d); got != "2025-08-23" {
		t.Errorf("expected 2025-08-23, got %s", got)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "nested", "state.json"))
	if got := store.SignalsOn("2025-08-23"); len(got) != 0 {
		t.Errorf("expected empty state, got %d signals", len(got))
	}
	if !store.AppendSignal("2025-08-23", testSignal(1)) {
		t.Error("append into fresh state should succeed")
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := Open(path)
	if got := store.SignalsOn("2025-08-23"); len(got) != 0 {
		t.Errorf("corrupt file should yield empty state, got %d signals", len(got))
	}
	// The bot keeps working and the next save replaces the corrupt file.
	store.AppendSignal("2025-08-23", testSignal(1))
	reopened := Open(path)
	if got := reopened.SignalsOn("2025-08-23"); len(got) != 1 {
		t.Errorf("expected 1 signal after rewrite, got %d", len(got))
	}
}

func TestAppendSignal_DedupByFixture(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "state.json"))
	if !store.AppendSignal("2025-08-23", testSignal(7)) {
		t.Fatal("first append should report true")
	}
	if store.AppendSignal("2025-08-23", testSignal(7)) {
		t.Error("second append for the same fixture should report false")
	}
	if got := store.SignalsOn("2025-08-23"); len(got) != 1 {
		t.Errorf("expected 1 signal, got %d", len(got))
	}
	// Same fixture on another day is a separate bet.
	if !store.AppendSignal("2025-08-24", testSignal(7)) {
		t.Error("append into a different day bucket should succeed")
	}
}

func TestRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := Open(path)
	store.AppendSignal("2025-08-23", testSignal(7))
	store.SetMarker("scan", "2025-08-23")

	reopened := Open(path)
	if got := reopened.Marker("scan"); got != "2025-08-23" {
		t.Errorf("expected marker 2025-08-23, got %q", got)
	}
	sigs := reopened.SignalsOn("2025-08-23")
	if len(sigs) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(sigs))
	}
	if sigs[0].FixtureID != 7 || sigs[0].Market.Scope != model.FirstHalf {
		t.Errorf("signal did not survive the roundtrip: %+v", sigs[0])
	}
}

func TestSetOutcome_FirstWriteWins(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "state.json"))
	store.AppendSignal("2025-08-23", testSignal(7))

	if !store.SetOutcome("2025-08-23", 7, model.OutcomeWin, "1:0") {
		t.Fatal("first settlement should report true")
	}
	if store.SetOutcome("2025-08-23", 7, model.OutcomeLoss, "0:0") {
		t.Error("second settlement should report false")
	}
	sig := store.SignalsOn("2025-08-23")[0]
	if sig.Outcome != model.OutcomeWin {
		t.Errorf("expected WIN to stick, got %s", sig.Outcome)
	}
	if sig.FinalScore != "1:0" {
		t.Errorf("expected score 1:0, got %q", sig.FinalScore)
	}
	if sig.SettledAt == nil {
		t.Error("expected SettledAt to be set")
	}

	if store.SetOutcome("2025-08-23", 999, model.OutcomeWin, "") {
		t.Error("settling an unknown fixture should report false")
	}
}

func TestSignalsBetween(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "state.json"))
	store.AppendSignal("2025-08-20", testSignal(1))
	store.AppendSignal("2025-08-21", testSignal(2))
	store.AppendSignal("2025-08-21", testSignal(3))
	store.AppendSignal("2025-08-23", testSignal(4))

	from := time.Date(2025, time.August, 20, 9, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.August, 22, 23, 0, 0, 0, time.UTC)
	got := store.SignalsBetween(from, to)
	if len(got) != 3 {
		t.Fatalf("expected 3 signals in range, got %d", len(got))
	}
	// Ascending by day, insertion order within a day.
	want := []int64{1, 2, 3}
	for i, sig := range got {
		if sig.FixtureID != want[i] {
			t.Errorf("position %d: expected fixture %d, got %d", i, want[i], sig.FixtureID)
		}
	}
}

func TestPurgeBefore(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "state.json"))
	store.AppendSignal("2025-06-01", testSignal(1))
	store.AppendSignal("2025-07-01", testSignal(2))
	store.AppendSignal("2025-08-01", testSignal(3))

	if n := store.PurgeBefore("2025-07-01"); n != 1 {
		t.Errorf("expected 1 bucket purged, got %d", n)
	}
	if got := store.SignalsOn("2025-06-01"); len(got) != 0 {
		t.Error("June bucket should be gone")
	}
	if got := store.SignalsOn("2025-07-01"); len(got) != 1 {
		t.Error("cutoff day itself must survive")
	}
	if n := store.PurgeBefore("2025-07-01"); n != 0 {
		t.Errorf("second purge should remove nothing, got %d", n)
	}
}

func TestSave_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	store := Open(filepath.Join(dir, "state.json"))
	store.AppendSignal("2025-08-23", testSignal(1))
	store.SetMarker("scan", "2025-08-23")
	store.SetOutcome("2025-08-23", 1, model.OutcomeWin, "2:0")

	leftovers, err := filepath.Glob(filepath.Join(dir, ".state-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("expected no temp files, found %v", leftovers)
	}
}

func TestStateFileDeletedMidRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := Open(path)
	store.AppendSignal("2025-08-23", testSignal(1))

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	// The in-memory state is authoritative; the next mutation recreates the
	// file with everything in it.
	store.AppendSignal("2025-08-23", testSignal(2))
	reopened := Open(path)
	if got := reopened.SignalsOn("2025-08-23"); len(got) != 2 {
		t.Errorf("expected both signals after recreate, got %d", len(got))
	}
}
