package config

import "os"

const (
	slackWebhookURLEnv = "SLACK_WEBHOOK_URL"
	slackBotTokenEnv   = "SLACK_BOT_TOKEN"
	slackChannelEnv    = "SLACK_CHANNEL"

	defaultSlackChannel = "#studio-status"
)

type SlackConfig struct {
	WebhookURL string
	BotToken   string
	Channel    string
}

func defaultSlackConfig() *SlackConfig {
	return &SlackConfig{Channel: defaultSlackChannel}
}

// Configured reports whether either posting path is usable.
func (c *SlackConfig) Configured() bool {
	return c.WebhookURL != "" || (c.BotToken != "" && c.Channel != "")
}

func applySlackEnv(c *SlackConfig) {
	if v := os.Getenv(slackWebhookURLEnv); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv(slackBotTokenEnv); v != "" {
		c.BotToken = v
	}
	if v := os.Getenv(slackChannelEnv); v != "" {
		c.Channel = v
	}
}
