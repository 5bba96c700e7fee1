package config

import "errors"

var (
	ErrInvalidTimezone        = errors.New("TIMEZONE is not a valid IANA timezone")
	ErrDocSourceMissing       = errors.New("one of SCHEDULE_DOC_PATH, SCHEDULE_DOC_URL or SCHEDULE_DOC_ID is required")
	ErrNoNotifyChannels       = errors.New("NOTIFY_CHANNELS must name at least one channel")
	ErrUnknownNotifyChannel   = errors.New("unknown notify channel")
	ErrEmailRecipientsMissing = errors.New("EMAIL_TO is required for the email channel")
	ErrSMTPHostMissing        = errors.New("SMTP_HOST is required for the email channel")
	ErrTwilioConfigMissing    = errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_WHATSAPP_FROM and WHATSAPP_TO are required for the whatsapp channel")
	ErrInvalidStateBackend    = errors.New("STATE_BACKEND must be file or redis")
	ErrRedisAddrMissing       = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB         = errors.New("REDIS_DB must be a valid integer")
	ErrEventsAPIURLMissing    = errors.New("EVENTS_API_URL is required")
	ErrMetabaseURLMissing     = errors.New("METABASE_BASE_URL is required")
	ErrSlackConfigMissing     = errors.New("SLACK_WEBHOOK_URL or SLACK_BOT_TOKEN with SLACK_CHANNEL is required")
	ErrBrowserConfigMissing   = errors.New("MAGIC_URL, SECONDARY_PASSWORD, APP_BASE_URL, REPORT_ID and REPORT_EMBED_HOST are required")
)
