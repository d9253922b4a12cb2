package state

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/relaxationvid13/signal-bot/internal/model"
)

const dayKeyLayout = "2006-01-02"

// DayKey returns the calendar bucket key for t. The layout is part of the
// persisted state contract.
func DayKey(t time.Time) string { return t.Format(dayKeyLayout) }

// Store owns the JSON state file with concurrency safety. Every mutation is
// written back immediately; a full-file rewrite per change is fine at this
// scale.
type Store struct {
	mu   sync.Mutex
	path string
	st   *model.State
}

// Open loads the state file at path. A missing, unreadable or corrupt file
// yields an empty state: losing a day of bookkeeping is preferred over
// refusing to start.
func Open(path string) *Store {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("[WARN] create state dir: %v", err)
		}
	}
	return &Store{path: path, st: load(path)}
}

func load(path string) *model.State {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] read state file %s: %v, starting empty", path, err)
		}
		return model.NewState()
	}
	var st model.State
	if err := json.Unmarshal(data, &st); err != nil {
		log.Printf("[WARN] corrupt state file %s: %v, starting empty", path, err)
		return model.NewState()
	}
	if st.Signals == nil {
		st.Signals = make(map[string][]model.Signal)
	}
	if st.Markers == nil {
		st.Markers = make(map[string]string)
	}
	return &st
}

// AppendSignal adds sig to the day's bucket unless a signal with the same
// fixture ID is already there. Reports whether the signal was newly added.
func (s *Store) AppendSignal(dayKey string, sig model.Signal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.st.Signals[dayKey] {
		if existing.FixtureID == sig.FixtureID {
			return false
		}
	}
	s.st.Signals[dayKey] = append(s.st.Signals[dayKey], sig)
	s.persist()
	return true
}

// SetOutcome settles the named signal. The first write wins; a signal that
// already carries an outcome is left untouched. Reports whether the outcome
// was written.
func (s *Store) SetOutcome(dayKey string, fixtureID int64, outcome model.Outcome, finalScore string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.st.Signals[dayKey]
	for i := range bucket {
		if bucket[i].FixtureID != fixtureID {
			continue
		}
		if bucket[i].Outcome != "" {
			return false
		}
		now := time.Now()
		bucket[i].Outcome = outcome
		bucket[i].FinalScore = finalScore
		bucket[i].SettledAt = &now
		s.persist()
		return true
	}
	return false
}

// SignalsOn returns the day's signals in insertion order.
func (s *Store) SignalsOn(dayKey string) []model.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.st.Signals[dayKey]
	out := make([]model.Signal, len(bucket))
	copy(out, bucket)
	return out
}

// SignalsBetween returns every signal from the inclusive day range, ascending
// by day and in insertion order within each day.
func (s *Store) SignalsBetween(from, to time.Time) []model.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Signal
	for d, end := dayStart(from), dayStart(to); !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, s.st.Signals[DayKey(d)]...)
	}
	return out
}

// Marker returns the last-completed period key for a task, or "" if the task
// never ran.
func (s *Store) Marker(task string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Markers[task]
}

// SetMarker records the period key a task just completed and persists it
// immediately.
func (s *Store) SetMarker(task, periodKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Markers[task] = periodKey
	s.persist()
}

// Markers returns a copy of all task markers.
func (s *Store) Markers() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.st.Markers))
	for k, v := range s.st.Markers {
		out[k] = v
	}
	return out
}

// PurgeBefore drops every day bucket strictly older than cutoffKey and
// returns the number of buckets removed. Day keys sort lexicographically in
// calendar order.
func (s *Store) PurgeBefore(cutoffKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.st.Signals {
		if key < cutoffKey {
			delete(s.st.Signals, key)
			n++
		}
	}
	if n > 0 {
		s.persist()
	}
	return n
}

// persist writes the state back, logging instead of failing: the next save
// overwrites whatever this one could not. Caller must hold mu.
func (s *Store) persist() {
	if err := s.save(); err != nil {
		log.Printf("[ERROR] save state: %v", err)
	}
}

// save writes the full state through a temp file and rename, so a crashed
// write never leaves a half-written state file behind.
func (s *Store) save() error {
	s.st.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(s.st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
