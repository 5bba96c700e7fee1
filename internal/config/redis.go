package config

import (
	"os"
	"strconv"
)

const (
	redisAddrEnv     = "REDIS_ADDR"
	redisPasswordEnv = "REDIS_PASSWORD"
	redisDBEnv       = "REDIS_DB"
	redisTLSEnv      = "REDIS_TLS"

	defaultRedisAddr = "localhost:6379"
)

// RedisConfig is only consulted when the sent-log state backend is redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

func defaultRedisConfig() *RedisConfig {
	return &RedisConfig{Addr: defaultRedisAddr}
}

func applyRedisEnv(c *RedisConfig) error {
	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(redisPasswordEnv); v != "" {
		c.Password = v
	}
	if raw := os.Getenv(redisDBEnv); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return ErrInvalidRedisDB
		}
		c.DB = parsed
	}
	if v := os.Getenv(redisTLSEnv); v != "" {
		c.TLS = v == "true"
	}
	return nil
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}
