package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// defaultLeagues is the built-in whitelist of league keywords considered
// reliable enough to bet on. Matching is by substring, so "england" covers
// every English competition label the data source emits.
var defaultLeagues = []string{
	"england", "premier league", "championship",
	"germany", "bundesliga", "2. bundesliga",
	"spain", "la liga", "laliga", "primera division", "segunda division",
	"italy", "serie a", "serie b",
	"france", "ligue 1", "ligue 2",
	"netherlands", "eredivisie",
	"portugal", "primeira liga", "liga portugal",
	"turkey", "super lig",
	"belgium", "pro league",
	"czech", "czech republic", "1. liga",
	"switzerland", "super league",
	"austria",
	"scotland", "premiership",
	"denmark", "superliga",
	"sweden", "allsvenskan",
	"norway", "eliteserien",
	"poland", "ekstraklasa",
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL        string   `yaml:"base_url"`
		APIKey         string   `yaml:"api_key"`
		Leagues        []string `yaml:"leagues"`
		RequestDelayMS int      `yaml:"request_delay_ms"`
	} `yaml:"data_source"`
	Strategy struct {
		Name        string  `yaml:"name"`
		LastN       int     `yaml:"last_n"`
		MaxPrice    float64 `yaml:"max_price"`
		MinScored   float64 `yaml:"min_scored"`
		MinConceded float64 `yaml:"min_conceded"`

		MinAverageGoals float64 `yaml:"min_average_goals"`
		PriceMin        float64 `yaml:"price_min"`
		PriceMax        float64 `yaml:"price_max"`
		Line            float64 `yaml:"line"`

		H2HLastN    int `yaml:"h2h_last_n"`
		H2HMinTotal int `yaml:"h2h_min_total"`
	} `yaml:"strategy"`
	Schedule struct {
		Timezone        string `yaml:"timezone"`
		TickSeconds     int    `yaml:"tick_seconds"`
		ScanAt          string `yaml:"scan_at"`
		DailyReportAt   string `yaml:"daily_report_at"`
		WeeklyReportAt  string `yaml:"weekly_report_at"`
		WeeklyReportDay string `yaml:"weekly_report_day"`
		MonthlyReportAt string `yaml:"monthly_report_at"`
	} `yaml:"schedule"`
	State struct {
		File          string `yaml:"file"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"state"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	HTTPAddr string `yaml:"http_addr"`
	Proxy    string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("FOOTDATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("FOOTDATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("STRATEGY"); v != "" {
		cfg.Strategy.Name = v
	}
	if v := os.Getenv("TZ"); v != "" {
		cfg.Schedule.Timezone = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.State.File = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			cfg.HTTPAddr = ":" + v
		}
	}

	// Defaults
	if cfg.DataSource.RequestDelayMS == 0 {
		cfg.DataSource.RequestDelayMS = 200
	}
	if len(cfg.DataSource.Leagues) == 0 {
		cfg.DataSource.Leagues = defaultLeagues
	}
	if cfg.Strategy.Name == "" {
		cfg.Strategy.Name = "favorite_fh_over05"
	}
	if cfg.Strategy.LastN == 0 {
		cfg.Strategy.LastN = 5
	}
	if cfg.Strategy.MaxPrice == 0 {
		cfg.Strategy.MaxPrice = 1.50
	}
	if cfg.Strategy.MinScored == 0 {
		cfg.Strategy.MinScored = 1.6
	}
	if cfg.Strategy.MinConceded == 0 {
		cfg.Strategy.MinConceded = 1.2
	}
	if cfg.Strategy.MinAverageGoals == 0 {
		cfg.Strategy.MinAverageGoals = 2.8
	}
	if cfg.Strategy.PriceMin == 0 {
		cfg.Strategy.PriceMin = 1.40
	}
	if cfg.Strategy.PriceMax == 0 {
		cfg.Strategy.PriceMax = 2.20
	}
	if cfg.Strategy.Line == 0 {
		cfg.Strategy.Line = 2.5
	}
	if cfg.Strategy.H2HLastN == 0 {
		cfg.Strategy.H2HLastN = 3
	}
	if cfg.Strategy.H2HMinTotal == 0 {
		cfg.Strategy.H2HMinTotal = 3
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = "Europe/Warsaw"
	}
	if cfg.Schedule.TickSeconds == 0 {
		cfg.Schedule.TickSeconds = 20
	}
	if cfg.Schedule.ScanAt == "" {
		cfg.Schedule.ScanAt = "08:00"
	}
	if cfg.Schedule.DailyReportAt == "" {
		cfg.Schedule.DailyReportAt = "23:30"
	}
	if cfg.Schedule.WeeklyReportAt == "" {
		cfg.Schedule.WeeklyReportAt = "23:50"
	}
	if cfg.Schedule.WeeklyReportDay == "" {
		cfg.Schedule.WeeklyReportDay = "Sunday"
	}
	if cfg.Schedule.MonthlyReportAt == "" {
		cfg.Schedule.MonthlyReportAt = "23:50"
	}
	if cfg.State.File == "" {
		cfg.State.File = "data/state.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/signals.db"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":10000"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.Schedule.TickSeconds <= 0 {
		return fmt.Errorf("schedule.tick_seconds must be positive")
	}
	// A monthly report needs up to 31 days of buckets still present.
	if c.State.RetentionDays != 0 && c.State.RetentionDays < 35 {
		return fmt.Errorf("state.retention_days must be 0 or at least 35")
	}
	return nil
}

// ParseWeekday resolves an English weekday name, matched case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
