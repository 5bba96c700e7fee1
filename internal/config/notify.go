package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	notifyChannelsEnv = "NOTIFY_CHANNELS"

	emailFromEnv = "EMAIL_FROM"
	emailToEnv   = "EMAIL_TO"

	smtpHostEnv     = "SMTP_HOST"
	smtpPortEnv     = "SMTP_PORT"
	smtpUsernameEnv = "SMTP_USERNAME"
	smtpPasswordEnv = "SMTP_PASSWORD"

	twilioAccountSIDEnv   = "TWILIO_ACCOUNT_SID"
	twilioAuthTokenEnv    = "TWILIO_AUTH_TOKEN"
	twilioWhatsAppFromEnv = "TWILIO_WHATSAPP_FROM"
	whatsAppToEnv         = "WHATSAPP_TO"

	defaultSMTPPort = 587
)

const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

type NotifyConfig struct {
	Channels []string

	EmailFrom string
	EmailTo   []string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	TwilioAccountSID string
	TwilioAuthToken  string
	WhatsAppFrom     string
	WhatsAppTo       []string
}

func defaultNotifyConfig() *NotifyConfig {
	return &NotifyConfig{
		Channels: []string{ChannelEmail},
		SMTPPort: defaultSMTPPort,
	}
}

func applyNotifyEnv(c *NotifyConfig) {
	if v := os.Getenv(notifyChannelsEnv); v != "" {
		if channels := splitList(strings.ToLower(v)); len(channels) > 0 {
			c.Channels = channels
		}
	}
	if v := os.Getenv(emailFromEnv); v != "" {
		c.EmailFrom = v
	}
	if v := os.Getenv(emailToEnv); v != "" {
		if recipients := splitList(v); len(recipients) > 0 {
			c.EmailTo = recipients
		}
	}
	if v := os.Getenv(smtpHostEnv); v != "" {
		c.SMTPHost = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.SMTPPort = parsed
		}
	}
	if v := os.Getenv(smtpUsernameEnv); v != "" {
		c.SMTPUsername = v
	}
	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.SMTPPassword = v
	}
	if v := os.Getenv(twilioAccountSIDEnv); v != "" {
		c.TwilioAccountSID = v
	}
	if v := os.Getenv(twilioAuthTokenEnv); v != "" {
		c.TwilioAuthToken = v
	}
	if v := os.Getenv(twilioWhatsAppFromEnv); v != "" {
		c.WhatsAppFrom = v
	}
	if v := os.Getenv(whatsAppToEnv); v != "" {
		if recipients := splitList(v); len(recipients) > 0 {
			c.WhatsAppTo = recipients
		}
	}
}

// splitList splits a comma-separated value into trimmed, non-empty parts.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
