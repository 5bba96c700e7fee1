package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/kestrelworks/studio-announce/internal/config"
	"github.com/kestrelworks/studio-announce/internal/domain"
	"github.com/kestrelworks/studio-announce/internal/infra/docsource"
	"github.com/kestrelworks/studio-announce/internal/infra/metabase"
	"github.com/kestrelworks/studio-announce/internal/infra/notify"
	"github.com/kestrelworks/studio-announce/internal/infra/slackpost"
	"github.com/kestrelworks/studio-announce/internal/infra/state"
	"github.com/kestrelworks/studio-announce/internal/infra/studio"
	"github.com/kestrelworks/studio-announce/internal/observability/metrics"
	"github.com/kestrelworks/studio-announce/internal/service/announce"
	"github.com/kestrelworks/studio-announce/internal/service/compose"
	"github.com/kestrelworks/studio-announce/internal/service/report"
	"github.com/kestrelworks/studio-announce/internal/service/schedule"
)

func buildDocSource(cfg *config.Config) docsource.Source {
	switch {
	case cfg.Doc.Path != "":
		return docsource.NewFileSource(cfg.Doc.Path)
	case cfg.Doc.URL != "":
		return docsource.NewHTTPSource(cfg.Doc.URL, cfg.Doc.Token)
	default:
		return docsource.NewDriveSource(cfg.Doc.ID, cfg.Doc.GoogleAccessToken)
	}
}

// buildStateStore returns the configured sent-log store. The redis client is
// non-nil only for the redis backend so the health checker can ping it.
func buildStateStore(ctx context.Context, cfg *config.Config) (domain.StateStore, *redis.Client, func(), error) {
	if cfg.State.Backend == config.StateBackendRedis {
		opts := &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		if cfg.Redis.TLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)

		if err := redisotel.InstrumentTracing(client); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
		}
		if err := redisotel.InstrumentMetrics(client); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to instrument redis metrics: %w", err)
		}

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		slog.Info("redis connected", slog.String("addr", cfg.Redis.Addr))

		cleanup := func() {
			if err := client.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}
		return state.NewRedisStore(client), client, cleanup, nil
	}

	return state.NewFileStore(cfg.State.Path), nil, func() {}, nil
}

func buildSenders(cfg *config.NotifyConfig) ([]announce.Sender, error) {
	var senders []announce.Sender
	for _, channel := range cfg.Channels {
		switch channel {
		case config.ChannelEmail:
			sender, err := notify.NewEmailSender(
				cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword,
				cfg.EmailFrom, cfg.EmailTo,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to build email sender: %w", err)
			}
			senders = append(senders, sender)
		case config.ChannelWhatsApp:
			senders = append(senders, notify.NewWhatsAppSender(
				cfg.TwilioAccountSID, cfg.TwilioAuthToken,
				cfg.WhatsAppFrom, cfg.WhatsAppTo,
			))
		}
	}
	return senders, nil
}

func buildParser(cfg *config.Config, loc *time.Location) (*schedule.Parser, error) {
	startTimes, err := schedule.StartTimesFromConfig(cfg.Schedule.StartTimes)
	if err != nil {
		return nil, fmt.Errorf("invalid start time overrides: %w", err)
	}
	return schedule.NewParser(loc, startTimes), nil
}

func buildStudio(cfg *config.StudioConfig) (*studio.SnapshotStore, *studio.Refresher, *studio.Provider) {
	client := studio.NewClient(cfg.EventsAPIURL, cfg.SiteURL)
	store := studio.NewSnapshotStore(cfg.SnapshotPath)
	refresher := studio.NewRefresher(client, store, cfg.LookaheadDays)
	provider := studio.NewProvider(store, client)
	return store, refresher, provider
}

func buildEngine(cfg *config.Config, loc *time.Location, parser *schedule.Parser, store domain.StateStore, events announce.EventSource) (*announce.Engine, error) {
	composer := compose.NewComposer(loc, cfg.Studio.Name, cfg.Studio.CalendarURL)

	announceMetrics, err := metrics.NewAnnounceMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	settings := announce.Settings{
		Offsets:        cfg.Reminders.Offsets,
		Window:         time.Duration(cfg.Reminders.WindowMinutes) * time.Minute,
		MatchTolerance: time.Duration(cfg.Match.ToleranceMinutes) * time.Minute,
		JoinBaseURL:    cfg.Studio.JoinBaseURL,
	}

	senders, err := buildSenders(cfg.Notify)
	if err != nil {
		return nil, err
	}

	return announce.NewEngine(
		buildDocSource(cfg), parser, store, events, composer,
		senders, settings, announceMetrics,
	), nil
}

func buildReportService(cfg *config.Config) *report.Service {
	poster := slackpost.NewPoster(cfg.Slack.WebhookURL, cfg.Slack.BotToken, cfg.Slack.Channel)
	cache := metabase.NewTokenCache(cfg.Report.JWTCachePath)
	client := metabase.NewClient(cfg.Report.MetabaseBaseURL)
	return report.NewService(cache, client, poster, cfg.Studio.Name)
}
