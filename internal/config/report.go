package config

import (
	"os"
	"strconv"
)

const (
	metabaseBaseURLEnv       = "METABASE_BASE_URL"
	jwtCachePathEnv          = "JWT_CACHE_PATH"
	jwtRefreshBufferHoursEnv = "JWT_REFRESH_BUFFER_HOURS"
	magicURLEnv              = "MAGIC_URL"
	secondaryPasswordEnv     = "SECONDARY_PASSWORD"
	appBaseURLEnv            = "APP_BASE_URL"
	reportIDEnv              = "REPORT_ID"
	reportEmbedHostEnv       = "REPORT_EMBED_HOST"

	defaultJWTCachePath          = "./.jwt_cache.json"
	defaultJWTRefreshBufferHours = 24
)

type ReportConfig struct {
	MetabaseBaseURL    string
	JWTCachePath       string
	RefreshBufferHours int

	// Browser token-refresh flow.
	MagicURL          string
	SecondaryPassword string
	AppBaseURL        string
	ReportID          int
	EmbedHost         string
}

func defaultReportConfig() *ReportConfig {
	return &ReportConfig{
		JWTCachePath:       defaultJWTCachePath,
		RefreshBufferHours: defaultJWTRefreshBufferHours,
	}
}

func applyReportEnv(c *ReportConfig) {
	if v := os.Getenv(metabaseBaseURLEnv); v != "" {
		c.MetabaseBaseURL = v
	}
	if v := os.Getenv(jwtCachePathEnv); v != "" {
		c.JWTCachePath = v
	}
	if v := os.Getenv(jwtRefreshBufferHoursEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.RefreshBufferHours = parsed
		}
	}
	if v := os.Getenv(magicURLEnv); v != "" {
		c.MagicURL = v
	}
	if v := os.Getenv(secondaryPasswordEnv); v != "" {
		c.SecondaryPassword = v
	}
	if v := os.Getenv(appBaseURLEnv); v != "" {
		c.AppBaseURL = v
	}
	if v := os.Getenv(reportIDEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ReportID = parsed
		}
	}
	if v := os.Getenv(reportEmbedHostEnv); v != "" {
		c.EmbedHost = v
	}
}
