package recorder

// SignalRecord is one emitted signal, flattened for the history log.
type SignalRecord struct {
	Day        string
	FixtureID  int64
	League     string
	Home       string
	Away       string
	Strategy   string
	Market     string
	Price      float64
	Commentary string
}

// SettlementRecord is one resolved outcome.
type SettlementRecord struct {
	Day        string
	FixtureID  int64
	Outcome    string
	FinalScore string
	Profit     string // decimal string, exact
}

// ReportRecord is one published report summary.
type ReportRecord struct {
	Period  string // "DAILY", "WEEKLY" or "MONTHLY"
	From    string
	To      string
	Total   int
	Wins    int
	Losses  int
	Pushes  int
	Voids   int
	Pending int
	Profit  string // decimal string, exact
}

// Recorder persists the running history that outlives the JSON state file's
// retention window.
type Recorder interface {
	RecordSignal(rec *SignalRecord) error
	RecordSettlement(rec *SettlementRecord) error
	RecordReport(rec *ReportRecord) error
	Close() error
}
