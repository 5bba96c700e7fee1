package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "./studio-announce.yaml"

// fileConfig mirrors the YAML schema. It is decoded separately and applied
// onto Config so that file values override defaults but never clobber fields
// the file leaves out.
type fileConfig struct {
	Timezone  string `yaml:"timezone"`
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Reminders struct {
		Offsets       []int `yaml:"offsets"`
		WindowMinutes int   `yaml:"window_minutes"`
	} `yaml:"reminders"`

	Match struct {
		ToleranceMinutes int `yaml:"tolerance_minutes"`
	} `yaml:"match"`

	State struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"state"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TLS      bool   `yaml:"tls"`
	} `yaml:"redis"`

	Doc struct {
		Path  string `yaml:"path"`
		URL   string `yaml:"url"`
		Token string `yaml:"token"`
		ID    string `yaml:"id"`
	} `yaml:"doc"`

	Google struct {
		AccessToken string `yaml:"access_token"`
	} `yaml:"google"`

	Notify struct {
		Channels     []string `yaml:"channels"`
		EmailFrom    string   `yaml:"email_from"`
		EmailTo      []string `yaml:"email_to"`
		SMTPHost     string   `yaml:"smtp_host"`
		SMTPPort     int      `yaml:"smtp_port"`
		SMTPUsername string   `yaml:"smtp_username"`
		SMTPPassword string   `yaml:"smtp_password"`

		TwilioAccountSID string   `yaml:"twilio_account_sid"`
		TwilioAuthToken  string   `yaml:"twilio_auth_token"`
		WhatsAppFrom     string   `yaml:"whatsapp_from"`
		WhatsAppTo       []string `yaml:"whatsapp_to"`
	} `yaml:"notify"`

	Studio struct {
		Name          string `yaml:"name"`
		SiteURL       string `yaml:"site_url"`
		EventsAPIURL  string `yaml:"events_api_url"`
		SnapshotPath  string `yaml:"snapshot_path"`
		LookaheadDays int    `yaml:"lookahead_days"`
		JoinBaseURL   string `yaml:"join_base_url"`
		CalendarURL   string `yaml:"calendar_url"`
	} `yaml:"studio"`

	Schedule struct {
		EventMinutes int               `yaml:"event_minutes"`
		StartTimes   map[string]string `yaml:"start_times"`
	} `yaml:"schedule"`

	Report struct {
		MetabaseBaseURL    string `yaml:"metabase_base_url"`
		JWTCachePath       string `yaml:"jwt_cache_path"`
		RefreshBufferHours int    `yaml:"refresh_buffer_hours"`
		MagicURL           string `yaml:"magic_url"`
		SecondaryPassword  string `yaml:"secondary_password"`
		AppBaseURL         string `yaml:"app_base_url"`
		ReportID           int    `yaml:"report_id"`
		EmbedHost          string `yaml:"embed_host"`
	} `yaml:"report"`

	Slack struct {
		WebhookURL string `yaml:"webhook_url"`
		BotToken   string `yaml:"bot_token"`
		Channel    string `yaml:"channel"`
	} `yaml:"slack"`

	Cron struct {
		Remind        string `yaml:"remind"`
		RefreshEvents string `yaml:"refresh_events"`
		DailyReport   string `yaml:"daily_report"`
	} `yaml:"cron"`
}

// applyFile layers the YAML file at path onto cfg. An empty path falls back
// to ./studio-announce.yaml and tolerates its absence; an explicit path must
// exist.
func applyFile(cfg *Config, path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if f.Timezone != "" {
		cfg.Timezone = f.Timezone
	}
	if f.Port != "" {
		cfg.Port = f.Port
	}
	if f.LogLevel != "" {
		cfg.LogLevel = parseLogLevel(f.LogLevel)
	}
	if f.LogFormat != "" {
		cfg.LogFormat = f.LogFormat
	}

	if len(f.Reminders.Offsets) > 0 {
		cfg.Reminders.Offsets = f.Reminders.Offsets
	}
	if f.Reminders.WindowMinutes > 0 {
		cfg.Reminders.WindowMinutes = f.Reminders.WindowMinutes
	}
	if f.Match.ToleranceMinutes > 0 {
		cfg.Match.ToleranceMinutes = f.Match.ToleranceMinutes
	}

	if f.State.Backend != "" {
		cfg.State.Backend = f.State.Backend
	}
	if f.State.Path != "" {
		cfg.State.Path = f.State.Path
	}
	if f.Redis.Addr != "" {
		cfg.Redis.Addr = f.Redis.Addr
	}
	if f.Redis.Password != "" {
		cfg.Redis.Password = f.Redis.Password
	}
	if f.Redis.DB != 0 {
		cfg.Redis.DB = f.Redis.DB
	}
	if f.Redis.TLS {
		cfg.Redis.TLS = true
	}

	if f.Doc.Path != "" {
		cfg.Doc.Path = f.Doc.Path
	}
	if f.Doc.URL != "" {
		cfg.Doc.URL = f.Doc.URL
	}
	if f.Doc.Token != "" {
		cfg.Doc.Token = f.Doc.Token
	}
	if f.Doc.ID != "" {
		cfg.Doc.ID = f.Doc.ID
	}
	if f.Google.AccessToken != "" {
		cfg.Doc.GoogleAccessToken = f.Google.AccessToken
	}

	if len(f.Notify.Channels) > 0 {
		cfg.Notify.Channels = f.Notify.Channels
	}
	if f.Notify.EmailFrom != "" {
		cfg.Notify.EmailFrom = f.Notify.EmailFrom
	}
	if len(f.Notify.EmailTo) > 0 {
		cfg.Notify.EmailTo = f.Notify.EmailTo
	}
	if f.Notify.SMTPHost != "" {
		cfg.Notify.SMTPHost = f.Notify.SMTPHost
	}
	if f.Notify.SMTPPort > 0 {
		cfg.Notify.SMTPPort = f.Notify.SMTPPort
	}
	if f.Notify.SMTPUsername != "" {
		cfg.Notify.SMTPUsername = f.Notify.SMTPUsername
	}
	if f.Notify.SMTPPassword != "" {
		cfg.Notify.SMTPPassword = f.Notify.SMTPPassword
	}
	if f.Notify.TwilioAccountSID != "" {
		cfg.Notify.TwilioAccountSID = f.Notify.TwilioAccountSID
	}
	if f.Notify.TwilioAuthToken != "" {
		cfg.Notify.TwilioAuthToken = f.Notify.TwilioAuthToken
	}
	if f.Notify.WhatsAppFrom != "" {
		cfg.Notify.WhatsAppFrom = f.Notify.WhatsAppFrom
	}
	if len(f.Notify.WhatsAppTo) > 0 {
		cfg.Notify.WhatsAppTo = f.Notify.WhatsAppTo
	}

	if f.Studio.Name != "" {
		cfg.Studio.Name = f.Studio.Name
	}
	if f.Studio.SiteURL != "" {
		cfg.Studio.SiteURL = f.Studio.SiteURL
	}
	if f.Studio.EventsAPIURL != "" {
		cfg.Studio.EventsAPIURL = f.Studio.EventsAPIURL
	}
	if f.Studio.SnapshotPath != "" {
		cfg.Studio.SnapshotPath = f.Studio.SnapshotPath
	}
	if f.Studio.LookaheadDays > 0 {
		cfg.Studio.LookaheadDays = f.Studio.LookaheadDays
	}
	if f.Studio.JoinBaseURL != "" {
		cfg.Studio.JoinBaseURL = f.Studio.JoinBaseURL
	}
	if f.Studio.CalendarURL != "" {
		cfg.Studio.CalendarURL = f.Studio.CalendarURL
	}

	if f.Schedule.EventMinutes > 0 {
		cfg.Schedule.EventMinutes = f.Schedule.EventMinutes
	}
	if len(f.Schedule.StartTimes) > 0 {
		cfg.Schedule.StartTimes = f.Schedule.StartTimes
	}

	if f.Report.MetabaseBaseURL != "" {
		cfg.Report.MetabaseBaseURL = f.Report.MetabaseBaseURL
	}
	if f.Report.JWTCachePath != "" {
		cfg.Report.JWTCachePath = f.Report.JWTCachePath
	}
	if f.Report.RefreshBufferHours > 0 {
		cfg.Report.RefreshBufferHours = f.Report.RefreshBufferHours
	}
	if f.Report.MagicURL != "" {
		cfg.Report.MagicURL = f.Report.MagicURL
	}
	if f.Report.SecondaryPassword != "" {
		cfg.Report.SecondaryPassword = f.Report.SecondaryPassword
	}
	if f.Report.AppBaseURL != "" {
		cfg.Report.AppBaseURL = f.Report.AppBaseURL
	}
	if f.Report.ReportID > 0 {
		cfg.Report.ReportID = f.Report.ReportID
	}
	if f.Report.EmbedHost != "" {
		cfg.Report.EmbedHost = f.Report.EmbedHost
	}

	if f.Slack.WebhookURL != "" {
		cfg.Slack.WebhookURL = f.Slack.WebhookURL
	}
	if f.Slack.BotToken != "" {
		cfg.Slack.BotToken = f.Slack.BotToken
	}
	if f.Slack.Channel != "" {
		cfg.Slack.Channel = f.Slack.Channel
	}

	if f.Cron.Remind != "" {
		cfg.Cron.Remind = f.Cron.Remind
	}
	if f.Cron.RefreshEvents != "" {
		cfg.Cron.RefreshEvents = f.Cron.RefreshEvents
	}
	if f.Cron.DailyReport != "" {
		cfg.Cron.DailyReport = f.Cron.DailyReport
	}

	return nil
}
