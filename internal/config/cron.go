package config

import "os"

const (
	cronRemindEnv        = "CRON_REMIND"
	cronRefreshEventsEnv = "CRON_REFRESH_EVENTS"
	cronDailyReportEnv   = "CRON_DAILY_REPORT"

	defaultCronRemind        = "*/5 * * * *"
	defaultCronRefreshEvents = "15 6,18 * * *"
	defaultCronDailyReport   = "0 7 * * *"
)

// CronConfig holds the serve-mode schedules, standard five-field cron
// expressions evaluated in the studio timezone.
type CronConfig struct {
	Remind        string
	RefreshEvents string
	DailyReport   string
}

func defaultCronConfig() *CronConfig {
	return &CronConfig{
		Remind:        defaultCronRemind,
		RefreshEvents: defaultCronRefreshEvents,
		DailyReport:   defaultCronDailyReport,
	}
}

func applyCronEnv(c *CronConfig) {
	if v := os.Getenv(cronRemindEnv); v != "" {
		c.Remind = v
	}
	if v := os.Getenv(cronRefreshEventsEnv); v != "" {
		c.RefreshEvents = v
	}
	if v := os.Getenv(cronDailyReportEnv); v != "" {
		c.DailyReport = v
	}
}
