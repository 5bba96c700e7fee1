package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"

	"github.com/kestrelworks/studio-announce/internal/config"
	"github.com/kestrelworks/studio-announce/internal/infra/browser"
	"github.com/kestrelworks/studio-announce/internal/infra/metabase"
	"github.com/kestrelworks/studio-announce/internal/service/icsfeed"
)

func runRemind(args []string) int {
	fs := flag.NewFlagSet("remind", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the YAML config file")
	nowFlag := fs.String("now", "", "virtual time for the pass, e.g. 2026-01-14T08:05:00")
	dryRun := fs.Bool("dry-run", false, "print reminders instead of sending and marking them")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, code := newApp(ctx, *configPath)
	if code != 0 {
		return code
	}
	defer app.close()

	if err := config.ValidateForRemind(app.cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	now := time.Now().In(app.loc)
	if *nowFlag != "" {
		parsed, err := dateparse.ParseIn(*nowFlag, app.loc)
		if err != nil {
			slog.Error("invalid -now value",
				slog.String("value", *nowFlag),
				slog.String("error", err.Error()),
			)
			return 1
		}
		now = parsed.In(app.loc)
		slog.Info("using virtual time", slog.Time("virtual_now", now))
	}

	store, _, cleanup, err := buildStateStore(ctx, app.cfg)
	if err != nil {
		slog.Error("failed to initialize state store", slog.String("error", err.Error()))
		return 1
	}
	defer cleanup()

	parser, err := buildParser(app.cfg, app.loc)
	if err != nil {
		slog.Error("invalid schedule configuration", slog.String("error", err.Error()))
		return 1
	}

	_, _, provider := buildStudio(app.cfg.Studio)

	engine, err := buildEngine(app.cfg, app.loc, parser, store, provider)
	if err != nil {
		slog.Error("failed to build reminder engine", slog.String("error", err.Error()))
		return 1
	}

	result, err := engine.RunOnce(ctx, now, uuid.NewString(), *dryRun)
	if err != nil {
		slog.Error("reminder pass failed", slog.String("error", err.Error()))
		return 1
	}
	if result.FailedCount > 0 {
		return 1
	}
	return 0
}

func runRefreshEvents(args []string) int {
	fs := flag.NewFlagSet("refresh-events", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the YAML config file")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, code := newApp(ctx, *configPath)
	if code != 0 {
		return code
	}
	defer app.close()

	if err := config.ValidateForEventsRefresh(app.cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	_, refresher, _ := buildStudio(app.cfg.Studio)

	kept, err := refresher.Refresh(ctx, time.Now().In(app.loc))
	if err != nil {
		slog.Error("events refresh failed", slog.String("error", err.Error()))
		return 1
	}
	slog.Info("events snapshot refreshed", slog.Int("kept", kept))
	return 0
}

func runReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the YAML config file")
	dryRun := fs.Bool("dry-run", false, "print the report instead of posting it")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, code := newApp(ctx, *configPath)
	if code != 0 {
		return code
	}
	defer app.close()

	if err := config.ValidateForReport(app.cfg, *dryRun); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	svc := buildReportService(app.cfg)
	if _, err := svc.Run(ctx, time.Now().In(app.loc), *dryRun); err != nil {
		slog.Error("daily report failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func runRefreshToken(args []string) int {
	fs := flag.NewFlagSet("refresh-token", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the YAML config file")
	force := fs.Bool("force", false, "refresh even when the cached token is still valid")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, code := newApp(ctx, *configPath)
	if code != 0 {
		return code
	}
	defer app.close()

	if err := config.ValidateForTokenRefresh(app.cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	cache := metabase.NewTokenCache(app.cfg.Report.JWTCachePath)
	buffer := time.Duration(app.cfg.Report.RefreshBufferHours) * time.Hour
	if !*force && cache.Valid(buffer) {
		slog.Info("cached embed token is still valid, skipping refresh",
			slog.Duration("buffer", buffer),
		)
		return 0
	}

	token, err := browser.ExtractReportToken(ctx, browser.Options{
		MagicURL:          app.cfg.Report.MagicURL,
		SecondaryPassword: app.cfg.Report.SecondaryPassword,
		AppBaseURL:        app.cfg.Report.AppBaseURL,
		ReportID:          app.cfg.Report.ReportID,
		EmbedHost:         app.cfg.Report.EmbedHost,
	})
	if err != nil {
		slog.Error("failed to extract embed token", slog.String("error", err.Error()))
		return 1
	}

	if err := cache.Save(token, app.cfg.Report.ReportID); err != nil {
		slog.Error("failed to save embed token", slog.String("error", err.Error()))
		return 1
	}
	slog.Info("embed token refreshed", slog.Int("report_id", app.cfg.Report.ReportID))
	return 0
}

func runExportICS(args []string) int {
	fs := flag.NewFlagSet("export-ics", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the YAML config file")
	out := fs.String("out", "./data/schedule.ics", "output path, or - for stdout")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, code := newApp(ctx, *configPath)
	if code != 0 {
		return code
	}
	defer app.close()

	if err := config.ValidateForExportICS(app.cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	text, err := buildDocSource(app.cfg).Fetch(ctx)
	if err != nil {
		slog.Error("failed to fetch schedule document", slog.String("error", err.Error()))
		return 1
	}

	parser, err := buildParser(app.cfg, app.loc)
	if err != nil {
		slog.Error("invalid schedule configuration", slog.String("error", err.Error()))
		return 1
	}

	entries := parser.Parse(ctx, text, time.Now().In(app.loc))
	cal := icsfeed.Build(entries, app.cfg.Studio.Name,
		time.Duration(app.cfg.Schedule.EventMinutes)*time.Minute)

	if *out == "-" {
		fmt.Print(cal.Serialize())
		return 0
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		slog.Error("failed to create output directory", slog.String("error", err.Error()))
		return 1
	}
	if err := os.WriteFile(*out, []byte(cal.Serialize()), 0o644); err != nil {
		slog.Error("failed to write calendar file", slog.String("error", err.Error()))
		return 1
	}
	slog.Info("calendar exported",
		slog.String("path", *out),
		slog.Int("events", len(entries)),
	)
	return 0
}
