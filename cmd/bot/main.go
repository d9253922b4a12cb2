package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relaxationvid13/signal-bot/internal/collector"
	"github.com/relaxationvid13/signal-bot/internal/config"
	"github.com/relaxationvid13/signal-bot/internal/health"
	"github.com/relaxationvid13/signal-bot/internal/notifier"
	"github.com/relaxationvid13/signal-bot/internal/recorder"
	"github.com/relaxationvid13/signal-bot/internal/report"
	"github.com/relaxationvid13/signal-bot/internal/scheduler"
	"github.com/relaxationvid13/signal-bot/internal/state"
	"github.com/relaxationvid13/signal-bot/internal/strategy"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] signal-bot starting...")

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		log.Fatalf("[FATAL] load timezone %q: %v", cfg.Schedule.Timezone, err)
	}
	weekday, err := config.ParseWeekday(cfg.Schedule.WeeklyReportDay)
	if err != nil {
		log.Fatalf("[FATAL] schedule.weekly_report_day: %v", err)
	}

	// Init fetcher and collector
	fetcher := collector.NewFootdataFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	log.Printf("[INFO] data source: %s, %d league keywords", fetcher.Name(), len(cfg.DataSource.Leagues))
	col := collector.NewCollector(fetcher, cfg.DataSource.Leagues)

	// Init strategy
	strat, err := strategy.New(cfg.Strategy.Name, strategy.Params{
		LastN:       cfg.Strategy.LastN,
		MaxPrice:    cfg.Strategy.MaxPrice,
		MinScored:   cfg.Strategy.MinScored,
		MinConceded: cfg.Strategy.MinConceded,

		MinAverageGoals: cfg.Strategy.MinAverageGoals,
		PriceMin:        cfg.Strategy.PriceMin,
		PriceMax:        cfg.Strategy.PriceMax,
		Line:            cfg.Strategy.Line,

		H2HLastN:    cfg.Strategy.H2HLastN,
		H2HMinTotal: cfg.Strategy.H2HMinTotal,
	})
	if err != nil {
		log.Fatalf("[FATAL] init strategy: %v", err)
	}
	log.Printf("[INFO] strategy: %s", strat.Name())

	// Init state store
	store := state.Open(cfg.State.File)

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	builder := report.NewBuilder(store, fetcher)
	sched, err := scheduler.NewScheduler(ctx, col, strat, store, builder, tn, rec, scheduler.Options{
		Location:      loc,
		Tick:          time.Duration(cfg.Schedule.TickSeconds) * time.Second,
		ScanAt:        cfg.Schedule.ScanAt,
		DailyAt:       cfg.Schedule.DailyReportAt,
		WeeklyAt:      cfg.Schedule.WeeklyReportAt,
		WeeklyDay:     weekday,
		MonthlyAt:     cfg.Schedule.MonthlyReportAt,
		ScanDelay:     time.Duration(cfg.DataSource.RequestDelayMS) * time.Millisecond,
		RetentionDays: cfg.State.RetentionDays,
	})
	if err != nil {
		log.Fatalf("[FATAL] init scheduler: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("[FATAL] start scheduler: %v", err)
	}
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Health endpoint for the hosting platform's probes
	go func() {
		if err := health.Serve(ctx, cfg.HTTPAddr); err != nil {
			log.Printf("[ERROR] health server: %v", err)
		}
	}()

	// Optional: scan immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing startup scan now")
		go sched.RunStartupScan()
	}

	hello := fmt.Sprintf("🚀 Бот активен.\nСкан: %s | Отчёт за день: %s\nНеделя: %s %s | Месяц: %s (последний день)",
		cfg.Schedule.ScanAt, cfg.Schedule.DailyReportAt,
		cfg.Schedule.WeeklyReportDay, cfg.Schedule.WeeklyReportAt, cfg.Schedule.MonthlyReportAt)
	if err := tn.SendWithRetry(ctx, hello, 3); err != nil {
		log.Printf("[ERROR] send startup message: %v", err)
	}

	log.Println("[INFO] signal-bot is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] signal-bot stopped")
}
