package config

import (
	"os"
	"strconv"
)

const (
	icsEventMinutesEnv = "ICS_EVENT_MINUTES"

	defaultICSEventMinutes = 75
)

type ScheduleConfig struct {
	// EventMinutes is the assumed class duration for calendar export.
	EventMinutes int
	// StartTimes overrides the built-in weekday start table; keys are
	// weekday names, values "HH:MM" in the studio timezone. YAML only.
	StartTimes map[string]string
}

func defaultScheduleConfig() *ScheduleConfig {
	return &ScheduleConfig{EventMinutes: defaultICSEventMinutes}
}

func applyScheduleEnv(c *ScheduleConfig) {
	if v := os.Getenv(icsEventMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.EventMinutes = parsed
		}
	}
}
