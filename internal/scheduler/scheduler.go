package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/relaxationvid13/signal-bot/internal/collector"
	"github.com/relaxationvid13/signal-bot/internal/model"
	"github.com/relaxationvid13/signal-bot/internal/notifier"
	"github.com/relaxationvid13/signal-bot/internal/recorder"
	"github.com/relaxationvid13/signal-bot/internal/report"
	"github.com/relaxationvid13/signal-bot/internal/state"
	"github.com/relaxationvid13/signal-bot/internal/strategy"

	"github.com/robfig/cron/v3"
)

// Sender delivers chat messages. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options configures the scheduler's calendar. Clock times are "HH:MM" in
// Location.
type Options struct {
	Location  *time.Location
	Tick      time.Duration
	ScanAt    string
	DailyAt   string
	WeeklyAt  string
	WeeklyDay time.Weekday
	MonthlyAt string

	ScanDelay     time.Duration // pause between per-fixture evaluations
	RetentionDays int           // 0 keeps day buckets forever
}

// Scheduler drives the periodic tasks: the fixture scan and the daily,
// weekly and monthly reports. Cron supplies a coarse tick; the persisted
// markers make each task fire at most once per calendar period, so a bot
// restarted or woken after the trigger time still catches up instead of
// skipping or repeating the task.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Strategy  strategy.Strategy
	Store     *state.Store
	Builder   *report.Builder
	Sender    Sender
	Recorder  recorder.Recorder
	Ctx       context.Context

	tickEvery time.Duration
	scanDelay time.Duration
	retention int
	tasks     []taskSpec

	// mu serializes the scheduled tick and manual commands; every
	// read-modify-write of the store happens under it.
	mu    sync.Mutex
	nowFn func() time.Time

	// failNotified throttles task-failure chat messages to one per period
	// while the silent retries continue each tick.
	failNotified map[string]string
}

// NewScheduler creates a Scheduler with its four tasks registered in fixed
// order: scan, daily report, weekly report, monthly report.
func NewScheduler(ctx context.Context, col *collector.Collector, strat strategy.Strategy, store *state.Store,
	builder *report.Builder, sender Sender, rec recorder.Recorder, opts Options) (*Scheduler, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		Cron: cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),

		Collector: col,
		Strategy:  strat,
		Store:     store,
		Builder:   builder,
		Sender:    sender,
		Recorder:  rec,
		Ctx:       ctx,

		tickEvery:    opts.Tick,
		scanDelay:    opts.ScanDelay,
		retention:    opts.RetentionDays,
		nowFn:        func() time.Time { return time.Now().In(loc) },
		failNotified: make(map[string]string),
	}

	for _, task := range []struct {
		name   string
		at     string
		period period
		run    func(now time.Time) error
	}{
		{TaskScan, opts.ScanAt, periodDay, func(now time.Time) error {
			return s.runScan(now, "Сигналы (ежедневный скан)")
		}},
		{TaskDaily, opts.DailyAt, periodDay, s.runDailyReport},
		{TaskWeekly, opts.WeeklyAt, periodWeek, s.runWeeklyReport},
		{TaskMonthly, opts.MonthlyAt, periodMonth, s.runMonthlyReport},
	} {
		hh, mm, err := parseClock(task.at)
		if err != nil {
			return nil, fmt.Errorf("%s trigger: %w", task.name, err)
		}
		s.tasks = append(s.tasks, taskSpec{
			name:    task.name,
			hour:    hh,
			minute:  mm,
			period:  task.period,
			weekday: opts.WeeklyDay,
			run:     task.run,
		})
	}
	return s, nil
}

// Start registers the tick entry and starts the cron scheduler.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %ds", int(s.tickEvery.Seconds()))
	if _, err := s.Cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("register tick: %w", err)
	}
	s.Cron.Start()
	log.Printf("[INFO] scheduler started, tick every %s", s.tickEvery)
	return nil
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// tick runs one pass over the tasks in fixed order. A task's marker advances
// only after it succeeds, so a failed task is retried on the next tick for
// the rest of its period.
func (s *Scheduler) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowFn()
	for _, t := range s.tasks {
		if !t.due(now, s.Store.Marker(t.name)) {
			continue
		}
		key := t.periodKey(now)
		log.Printf("[INFO] %s due for %s", t.name, key)
		if err := t.run(now); err != nil {
			log.Printf("[ERROR] %s: %v", t.name, err)
			s.notifyFailure(t.name, key, err)
			continue
		}
		delete(s.failNotified, t.name)
		s.Store.SetMarker(t.name, key)
	}
}

// notifyFailure tells the chat about a failed task once per period.
func (s *Scheduler) notifyFailure(task, periodKey string, err error) {
	if s.failNotified[task] == periodKey {
		return
	}
	s.failNotified[task] = periodKey
	s.trySend(fmt.Sprintf("❌ Задача %s не выполнена: %v", task, err))
}

// runScan evaluates today's fixtures and notifies each fresh signal under
// the given title. Signals already stored for the day are kept silent, which
// is what lets the manual and scheduled scans coexist without duplicates.
func (s *Scheduler) runScan(now time.Time, title string) error {
	fixtures, err := s.Collector.TodayFixtures(s.Ctx, now)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	day := state.DayKey(now)
	fresh := 0
	for i, fx := range fixtures {
		if i > 0 && s.scanDelay > 0 {
			select {
			case <-s.Ctx.Done():
				return s.Ctx.Err()
			case <-time.After(s.scanDelay):
			}
		}
		verdict := s.evaluate(fx)
		if verdict == nil {
			continue
		}
		if !verdict.Pass {
			log.Printf("[INFO] skip %s vs %s: %s", fx.Home.Name, fx.Away.Name, verdict.Reason)
			continue
		}
		sig := model.Signal{
			FixtureID:  fx.ID,
			League:     fx.League,
			Home:       fx.Home.Name,
			Away:       fx.Away.Name,
			Strategy:   s.Strategy.Name(),
			Market:     verdict.Market,
			Price:      verdict.Price,
			Favorite:   verdict.Favorite,
			Commentary: verdict.Commentary,
			Values:     verdict.Values,
			CreatedAt:  now,
		}
		if !s.Store.AppendSignal(day, sig) {
			log.Printf("[INFO] fixture %d already signalled today, not re-notifying", fx.ID)
			continue
		}
		fresh++
		s.trySend(notifier.FormatSignal(title, sig))
		if err := s.Recorder.RecordSignal(&recorder.SignalRecord{
			Day:        day,
			FixtureID:  sig.FixtureID,
			League:     sig.League,
			Home:       sig.Home,
			Away:       sig.Away,
			Strategy:   sig.Strategy,
			Market:     sig.Market.Code(),
			Price:      sig.Price,
			Commentary: sig.Commentary,
		}); err != nil {
			log.Printf("[ERROR] record signal: %v", err)
		}
	}
	if fresh == 0 {
		s.trySend(notifier.NoSignalsMessage)
	}
	return nil
}

// evaluate applies the strategy to one fixture. A panic is contained to the
// fixture so one bad record cannot abort the rest of the scan.
func (s *Scheduler) evaluate(fx model.Fixture) (verdict *strategy.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] evaluate %s vs %s: panic: %v", fx.Home.Name, fx.Away.Name, r)
			verdict = nil
		}
	}()
	v, err := s.Strategy.Evaluate(s.Ctx, fx, s.Collector.Fetcher)
	if err != nil {
		log.Printf("[WARN] evaluate %s vs %s: %v", fx.Home.Name, fx.Away.Name, err)
		return nil
	}
	return v
}

func (s *Scheduler) runDailyReport(now time.Time) error {
	log.Println("[INFO] running daily report")
	day := state.DayKey(now)
	s.recordSettlements(s.Builder.SettleRange(s.Ctx, now, now))
	signals := s.Store.SignalsOn(day)
	rep := report.Summarize(signals)
	s.trySend(notifier.FormatDailyReport(day, signals, rep))
	s.recordReport("DAILY", day, day, rep)
	s.purgeOld(now)
	return nil
}

func (s *Scheduler) runWeeklyReport(now time.Time) error {
	log.Println("[INFO] running weekly report")
	from := now.AddDate(0, 0, -6)
	s.recordSettlements(s.Builder.SettleRange(s.Ctx, from, now))
	rep := report.Summarize(s.Store.SignalsBetween(from, now))
	s.trySend(notifier.FormatWeeklyReport(state.DayKey(from), state.DayKey(now), rep))
	s.recordReport("WEEKLY", state.DayKey(from), state.DayKey(now), rep)
	return nil
}

func (s *Scheduler) runMonthlyReport(now time.Time) error {
	log.Println("[INFO] running monthly report")
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	s.recordSettlements(s.Builder.SettleRange(s.Ctx, from, now))
	rep := report.Summarize(s.Store.SignalsBetween(from, now))
	s.trySend(notifier.FormatMonthlyReport(state.DayKey(from), state.DayKey(now), rep))
	s.recordReport("MONTHLY", state.DayKey(from), state.DayKey(now), rep)
	return nil
}

func (s *Scheduler) recordSettlements(settled []report.Settled) {
	for _, st := range settled {
		if err := s.Recorder.RecordSettlement(&recorder.SettlementRecord{
			Day:        st.Day,
			FixtureID:  st.Signal.FixtureID,
			Outcome:    string(st.Signal.Outcome),
			FinalScore: st.Signal.FinalScore,
			Profit:     report.ProfitOf(st.Signal).String(),
		}); err != nil {
			log.Printf("[ERROR] record settlement: %v", err)
		}
	}
}

func (s *Scheduler) recordReport(period, from, to string, rep report.Report) {
	if err := s.Recorder.RecordReport(&recorder.ReportRecord{
		Period:  period,
		From:    from,
		To:      to,
		Total:   rep.Total,
		Wins:    rep.Wins,
		Losses:  rep.Losses,
		Pushes:  rep.Pushes,
		Voids:   rep.Voids,
		Pending: rep.Pending,
		Profit:  rep.Profit.String(),
	}); err != nil {
		log.Printf("[ERROR] record report: %v", err)
	}
}

// purgeOld rolls expired day buckets out of the JSON state after the daily
// report has gone out; the SQLite history keeps the full record.
func (s *Scheduler) purgeOld(now time.Time) {
	if s.retention <= 0 {
		return
	}
	cutoff := state.DayKey(now.AddDate(0, 0, -s.retention))
	if n := s.Store.PurgeBefore(cutoff); n > 0 {
		log.Printf("[INFO] purged %d day buckets before %s", n, cutoff)
	}
}

// HandleCommand processes a user command and returns a reply. Commands run
// under the same lock as the scheduled tick and never touch the markers: a
// manual scan or report does not stop the scheduled one from firing at its
// own time.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/scan":
		s.mu.Lock()
		defer s.mu.Unlock()
		s.trySend("⏳ Ручной скан запущен…")
		if err := s.runScan(s.nowFn(), "Сигналы (ручной)"); err != nil {
			return fmt.Sprintf("❌ Ошибка: %v", err)
		}
		return ""
	case "/daily":
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.runDailyReport(s.nowFn()); err != nil {
			return fmt.Sprintf("❌ Ошибка: %v", err)
		}
		return ""
	case "/weekly":
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.runWeeklyReport(s.nowFn()); err != nil {
			return fmt.Sprintf("❌ Ошибка: %v", err)
		}
		return ""
	case "/monthly":
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.runMonthlyReport(s.nowFn()); err != nil {
			return fmt.Sprintf("❌ Ошибка: %v", err)
		}
		return ""
	case "/markers":
		s.mu.Lock()
		defer s.mu.Unlock()
		return notifier.FormatMarkers(s.taskNames(), s.Store.Markers())
	default:
		return "Команды:\n• /scan — ручной скан\n• /daily — отчёт за день\n• /weekly — недельная сводка\n• /monthly — месячная сводка\n• /markers — маркеры задач"
	}
}

// RunStartupScan performs the one-shot scan at process start. Signals stored
// before the restart are deduped by the append, so the chat is not
// re-notified about them.
func (s *Scheduler) RunStartupScan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.runScan(s.nowFn(), "Сигналы (стартовый прогон)"); err != nil {
		log.Printf("[ERROR] startup scan: %v", err)
		s.trySend(fmt.Sprintf("⚠️ Стартовый скан не удался: %v", err))
	}
}

func (s *Scheduler) taskNames() []string {
	names := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		names[i] = t.name
	}
	return names
}

func (s *Scheduler) trySend(text string) {
	if err := s.Sender.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
