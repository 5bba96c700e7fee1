package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	timezoneEnv  = "TIMEZONE"
	portEnv      = "PORT"
	logLevelEnv  = "LOG_LEVEL"
	logFormatEnv = "LOG_FORMAT"

	defaultTimezone = "America/Denver"
	defaultPort     = "8080"
)

type Config struct {
	Timezone  string
	Port      string
	LogLevel  slog.Level
	LogFormat string

	Reminders *RemindersConfig
	Match     *MatchConfig
	State     *StateConfig
	Redis     *RedisConfig
	Doc       *DocConfig
	Notify    *NotifyConfig
	Studio    *StudioConfig
	Schedule  *ScheduleConfig
	Report    *ReportConfig
	Slack     *SlackConfig
	Cron      *CronConfig
}

// Load builds the configuration in three layers: package defaults, then the
// YAML file at path (optional when path is empty), then environment
// variables. Later layers win.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Timezone:  defaultTimezone,
		Port:      defaultPort,
		LogLevel:  slog.LevelInfo,
		LogFormat: "json",
		Reminders: defaultRemindersConfig(),
		Match:     defaultMatchConfig(),
		State:     defaultStateConfig(),
		Redis:     defaultRedisConfig(),
		Doc:       &DocConfig{},
		Notify:    defaultNotifyConfig(),
		Studio:    defaultStudioConfig(),
		Schedule:  defaultScheduleConfig(),
		Report:    defaultReportConfig(),
		Slack:     defaultSlackConfig(),
		Cron:      defaultCronConfig(),
	}

	if err := applyFile(cfg, path); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(timezoneEnv); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv(portEnv); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		cfg.LogLevel = parseLogLevel(v)
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	applyRemindersEnv(cfg.Reminders)
	applyMatchEnv(cfg.Match)
	applyStateEnv(cfg.State)
	if err := applyRedisEnv(cfg.Redis); err != nil {
		return err
	}
	applyDocEnv(cfg.Doc)
	applyNotifyEnv(cfg.Notify)
	applyStudioEnv(cfg.Studio)
	applyScheduleEnv(cfg.Schedule)
	applyReportEnv(cfg.Report)
	applySlackEnv(cfg.Slack)
	applyCronEnv(cfg.Cron)

	return nil
}

// Location resolves the configured studio timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Timezone)
	}
	return loc, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
