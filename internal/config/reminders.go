package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	reminderOffsetsEnv       = "REMINDER_OFFSETS"
	reminderWindowMinutesEnv = "REMINDER_WINDOW_MINUTES"

	defaultReminderWindowMinutes = 15
)

type RemindersConfig struct {
	// Offsets are reminder lead times in hours before class start.
	Offsets       []int
	WindowMinutes int
}

func defaultRemindersConfig() *RemindersConfig {
	return &RemindersConfig{
		Offsets:       []int{26, 25, 24},
		WindowMinutes: defaultReminderWindowMinutes,
	}
}

func applyRemindersEnv(c *RemindersConfig) {
	if v := os.Getenv(reminderOffsetsEnv); v != "" {
		if offsets := parseOffsetList(v); len(offsets) > 0 {
			c.Offsets = offsets
		}
	}
	if v := os.Getenv(reminderWindowMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.WindowMinutes = parsed
		}
	}
}

// parseOffsetList splits a comma-separated list of hour offsets, skipping
// parts that are not integers. An all-invalid input yields an empty slice so
// the caller keeps its default.
func parseOffsetList(raw string) []int {
	parts := strings.Split(raw, ",")
	offsets := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		offsets = append(offsets, parsed)
	}
	return offsets
}
