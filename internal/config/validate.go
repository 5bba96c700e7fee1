package config

import "fmt"

// ValidateForRemind checks everything a reminder pass needs before any
// processing starts.
func ValidateForRemind(cfg *Config) error {
	if err := validateDocSource(cfg.Doc); err != nil {
		return err
	}
	if err := validateChannels(cfg.Notify); err != nil {
		return err
	}
	return validateStateBackend(cfg)
}

// ValidateForServe covers serve mode, which runs reminder passes on a
// schedule.
func ValidateForServe(cfg *Config) error {
	return ValidateForRemind(cfg)
}

func ValidateForEventsRefresh(cfg *Config) error {
	if cfg.Studio.EventsAPIURL == "" {
		return ErrEventsAPIURLMissing
	}
	return nil
}

// ValidateForReport skips the Slack requirement on dry runs, which only
// print the formatted report.
func ValidateForReport(cfg *Config, dryRun bool) error {
	if cfg.Report.MetabaseBaseURL == "" {
		return ErrMetabaseURLMissing
	}
	if !dryRun && !cfg.Slack.Configured() {
		return ErrSlackConfigMissing
	}
	return nil
}

func ValidateForTokenRefresh(cfg *Config) error {
	r := cfg.Report
	if r.MagicURL == "" || r.SecondaryPassword == "" || r.AppBaseURL == "" ||
		r.ReportID <= 0 || r.EmbedHost == "" {
		return ErrBrowserConfigMissing
	}
	return nil
}

func ValidateForExportICS(cfg *Config) error {
	return validateDocSource(cfg.Doc)
}

func validateDocSource(doc *DocConfig) error {
	if doc.Path == "" && doc.URL == "" && doc.ID == "" {
		return ErrDocSourceMissing
	}
	return nil
}

func validateChannels(notify *NotifyConfig) error {
	if len(notify.Channels) == 0 {
		return ErrNoNotifyChannels
	}
	for _, channel := range notify.Channels {
		switch channel {
		case ChannelEmail:
			if len(notify.EmailTo) == 0 {
				return ErrEmailRecipientsMissing
			}
			if notify.SMTPHost == "" {
				return ErrSMTPHostMissing
			}
		case ChannelWhatsApp:
			if notify.TwilioAccountSID == "" || notify.TwilioAuthToken == "" ||
				notify.WhatsAppFrom == "" || len(notify.WhatsAppTo) == 0 {
				return ErrTwilioConfigMissing
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownNotifyChannel, channel)
		}
	}
	return nil
}

func validateStateBackend(cfg *Config) error {
	switch cfg.State.Backend {
	case StateBackendFile:
		return nil
	case StateBackendRedis:
		return cfg.Redis.Validate()
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStateBackend, cfg.State.Backend)
	}
}
