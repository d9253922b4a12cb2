package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the signal history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad hoc reads don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			day        TEXT NOT NULL,
			fixture_id INTEGER NOT NULL,
			league     TEXT,
			home       TEXT,
			away       TEXT,
			strategy   TEXT,
			market     TEXT,
			price      REAL,
			commentary TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_day ON signals(day)`,

		`CREATE TABLE IF NOT EXISTS settlements (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			day         TEXT NOT NULL,
			fixture_id  INTEGER NOT NULL,
			outcome     TEXT,
			final_score TEXT,
			profit      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_settlements_day ON settlements(day)`,

		`CREATE TABLE IF NOT EXISTS reports (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			period    TEXT NOT NULL,
			from_day  TEXT,
			to_day    TEXT,
			total     INTEGER,
			wins      INTEGER,
			losses    INTEGER,
			pushes    INTEGER,
			voids     INTEGER,
			pending   INTEGER,
			profit    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_ts ON reports(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(rec *SignalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO signals
		(timestamp, day, fixture_id, league, home, away, strategy, market, price, commentary)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Day, rec.FixtureID, rec.League, rec.Home, rec.Away,
		rec.Strategy, rec.Market, rec.Price, rec.Commentary,
	)
	return err
}

func (r *SQLiteRecorder) RecordSettlement(rec *SettlementRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO settlements
		(timestamp, day, fixture_id, outcome, final_score, profit)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Day, rec.FixtureID, rec.Outcome, rec.FinalScore, rec.Profit,
	)
	return err
}

func (r *SQLiteRecorder) RecordReport(rec *ReportRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO reports
		(timestamp, period, from_day, to_day, total, wins, losses, pushes, voids, pending, profit)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Period, rec.From, rec.To,
		rec.Total, rec.Wins, rec.Losses, rec.Pushes, rec.Voids, rec.Pending, rec.Profit,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
