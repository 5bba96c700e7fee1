package config

import (
	"os"
	"strconv"
)

const (
	studioNameEnv          = "STUDIO_NAME"
	studioSiteURLEnv       = "STUDIO_SITE_URL"
	eventsAPIURLEnv        = "EVENTS_API_URL"
	eventsSnapshotPathEnv  = "EVENTS_SNAPSHOT_PATH"
	eventsLookaheadDaysEnv = "EVENTS_LOOKAHEAD_DAYS"
	joinBaseURLEnv         = "JOIN_BASE_URL"
	calendarURLEnv         = "CALENDAR_URL"

	defaultSnapshotPath  = "./data/studio_events.json"
	defaultLookaheadDays = 60
)

type StudioConfig struct {
	Name          string
	SiteURL       string
	EventsAPIURL  string
	SnapshotPath  string
	LookaheadDays int
	JoinBaseURL   string
	CalendarURL   string
}

func defaultStudioConfig() *StudioConfig {
	return &StudioConfig{
		SnapshotPath:  defaultSnapshotPath,
		LookaheadDays: defaultLookaheadDays,
	}
}

func applyStudioEnv(c *StudioConfig) {
	if v := os.Getenv(studioNameEnv); v != "" {
		c.Name = v
	}
	if v := os.Getenv(studioSiteURLEnv); v != "" {
		c.SiteURL = v
	}
	if v := os.Getenv(eventsAPIURLEnv); v != "" {
		c.EventsAPIURL = v
	}
	if v := os.Getenv(eventsSnapshotPathEnv); v != "" {
		c.SnapshotPath = v
	}
	if v := os.Getenv(eventsLookaheadDaysEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.LookaheadDays = parsed
		}
	}
	if v := os.Getenv(joinBaseURLEnv); v != "" {
		c.JoinBaseURL = v
	}
	if v := os.Getenv(calendarURLEnv); v != "" {
		c.CalendarURL = v
	}
}
