package config

import "os"

const (
	docPathEnv  = "SCHEDULE_DOC_PATH"
	docURLEnv   = "SCHEDULE_DOC_URL"
	docTokenEnv = "SCHEDULE_DOC_TOKEN"
	docIDEnv    = "SCHEDULE_DOC_ID"

	googleAccessTokenEnv = "GOOGLE_ACCESS_TOKEN"
)

// DocConfig selects the schedule document source. Path wins over URL, URL
// wins over the Google Doc ID.
type DocConfig struct {
	Path  string
	URL   string
	Token string
	ID    string

	GoogleAccessToken string
}

func applyDocEnv(c *DocConfig) {
	if v := os.Getenv(docPathEnv); v != "" {
		c.Path = v
	}
	if v := os.Getenv(docURLEnv); v != "" {
		c.URL = v
	}
	if v := os.Getenv(docTokenEnv); v != "" {
		c.Token = v
	}
	if v := os.Getenv(docIDEnv); v != "" {
		c.ID = v
	}
	if v := os.Getenv(googleAccessTokenEnv); v != "" {
		c.GoogleAccessToken = v
	}
}
