package config

import (
	"os"
	"strconv"
)

const (
	matchToleranceMinutesEnv = "MATCH_TOLERANCE_MINUTES"

	defaultMatchToleranceMinutes = 15
)

type MatchConfig struct {
	ToleranceMinutes int
}

func defaultMatchConfig() *MatchConfig {
	return &MatchConfig{ToleranceMinutes: defaultMatchToleranceMinutes}
}

func applyMatchEnv(c *MatchConfig) {
	if v := os.Getenv(matchToleranceMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ToleranceMinutes = parsed
		}
	}
}
