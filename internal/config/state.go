package config

import "os"

const (
	stateBackendEnv = "STATE_BACKEND"
	statePathEnv    = "REMINDER_STATE_PATH"

	defaultStatePath = "./data/reminder_state.json"
)

const (
	StateBackendFile  = "file"
	StateBackendRedis = "redis"
)

type StateConfig struct {
	Backend string
	Path    string
}

func defaultStateConfig() *StateConfig {
	return &StateConfig{
		Backend: StateBackendFile,
		Path:    defaultStatePath,
	}
}

func applyStateEnv(c *StateConfig) {
	if v := os.Getenv(stateBackendEnv); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(statePathEnv); v != "" {
		c.Path = v
	}
}
