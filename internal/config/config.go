package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"demand-planner/internal/admission"
	"demand-planner/internal/capture"
	"demand-planner/internal/model"
)

const (
	defaultDatabaseURL    = "demand_planner.db"
	defaultReportInterval = 5 * time.Hour
	defaultTimerRefresh   = 5 * time.Second
)

// Config keeps runtime settings for the bot and the CLI.
type Config struct {
	TelegramToken  string
	DatabaseURL    string
	ReportInterval time.Duration
	ReportAt       string // optional HH:MM for an extra daily report
	TimerRefresh   time.Duration
	AccessKey      string
	ConfigFile     string

	Limits   admission.Limits
	Keywords capture.Keywords
}

// fileConfig is the shape of the optional YAML file.
type fileConfig struct {
	Limits   map[string]int   `yaml:"limits"`
	Keywords capture.Keywords `yaml:"keywords"`
}

// Load reads configuration from environment variables with sane defaults.
// The YAML file named by CONFIG_FILE, when set, is applied on top.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ReportInterval: parseInterval(strings.TrimSpace(os.Getenv("REPORT_INTERVAL_HOURS"))),
		ReportAt:       strings.TrimSpace(os.Getenv("REPORT_AT")),
		TimerRefresh:   parseSeconds(strings.TrimSpace(os.Getenv("TIMER_REFRESH_SECONDS"))),
		AccessKey:      strings.TrimSpace(os.Getenv("ACCESS_KEY")),
		ConfigFile:     strings.TrimSpace(os.Getenv("CONFIG_FILE")),
		Limits:         admission.DefaultLimits(),
		Keywords:       capture.DefaultKeywords(),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}

	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = defaultReportInterval
	}

	if cfg.TimerRefresh == 0 {
		cfg.TimerRefresh = defaultTimerRefresh
	}

	if cfg.ConfigFile != "" {
		if err := cfg.ApplyFile(cfg.ConfigFile); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// RequireToken fails when no Telegram token is configured.
func (c Config) RequireToken() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	return nil
}

// ApplyFile merges limits and keywords from a YAML file. Type names may be
// English or Portuguese.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if c.Limits == nil {
		c.Limits = admission.DefaultLimits()
	}
	var errs []error
	for name, limit := range fc.Limits {
		t, err := model.ParseTaskType(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if limit <= 0 {
			errs = append(errs, fmt.Errorf("limit for %s must be positive", t))
			continue
		}
		c.Limits[t] = limit
	}
	c.Keywords = c.Keywords.Merge(lowerKeywords(fc.Keywords))
	c.ConfigFile = path

	if len(errs) > 0 {
		return fmt.Errorf("config file %s: %w", path, errors.Join(errs...))
	}
	return nil
}

func lowerKeywords(k capture.Keywords) capture.Keywords {
	lower := func(words []string) []string {
		out := make([]string, 0, len(words))
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				out = append(out, w)
			}
		}
		return out
	}
	return capture.Keywords{
		Think:   lower(k.Think),
		Respond: lower(k.Respond),
		Execute: lower(k.Execute),
	}
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseSeconds(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
