package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/kestrelworks/studio-announce/internal/config"
	"github.com/kestrelworks/studio-announce/internal/handler"
	"github.com/kestrelworks/studio-announce/internal/health"
	"github.com/kestrelworks/studio-announce/internal/infra/studio"
	"github.com/kestrelworks/studio-announce/internal/observability/middleware"
	"github.com/kestrelworks/studio-announce/internal/service/report"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the YAML config file")
	_ = fs.Parse(args)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, code := newApp(ctx, *configPath)
	if code != 0 {
		return code
	}
	defer app.close()
	cfg := app.cfg

	if err := config.ValidateForServe(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	store, redisClient, cleanup, err := buildStateStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize state store", slog.String("error", err.Error()))
		return 1
	}
	defer cleanup()

	parser, err := buildParser(cfg, app.loc)
	if err != nil {
		slog.Error("invalid schedule configuration", slog.String("error", err.Error()))
		return 1
	}

	snapshots, refresher, provider := buildStudio(cfg.Studio)

	engine, err := buildEngine(cfg, app.loc, parser, store, provider)
	if err != nil {
		slog.Error("failed to build reminder engine", slog.String("error", err.Error()))
		return 1
	}

	var reportSvc *report.Service
	if cfg.Report.MetabaseBaseURL != "" && cfg.Slack.Configured() {
		reportSvc = buildReportService(cfg)
	}

	announceHandler := handler.NewAnnounceHandler(engine, app.loc)
	scheduleHandler := handler.NewScheduleHandler(
		buildDocSource(cfg), parser, app.loc, cfg.Studio.Name,
		time.Duration(cfg.Schedule.EventMinutes)*time.Minute,
	)
	eventsHandler := handler.NewEventsHandler(snapshots, refresher)
	reportHandler := handler.NewReportHandler(reportSvc, app.loc)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths: []string{"/health", "/health/live", "/health/ready"},
	}))
	r.Use(middleware.PanicRecoveryGin())

	statePath := ""
	if cfg.State.Backend == config.StateBackendFile {
		statePath = cfg.State.Path
	}
	healthChecker := health.NewChecker(redisClient, statePath, cfg.Studio.SnapshotPath, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/reminders/run", announceHandler.HandleRun)
		v1.GET("/schedule", scheduleHandler.HandleSchedule)
		v1.GET("/events", eventsHandler.HandleList)
		v1.POST("/events/refresh", eventsHandler.HandleRefresh)
		v1.POST("/reports/daily", reportHandler.HandleDaily)
	}
	r.GET("/calendar.ics", scheduleHandler.HandleCalendarFeed)

	scheduler, err := startCron(ctx, cfg.Cron, app.loc, announceHandler, refresher, reportSvc)
	if err != nil {
		slog.Error("failed to start scheduler", slog.String("error", err.Error()))
		return 1
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("version", Version),
			slog.String("state_backend", cfg.State.Backend),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			slog.Warn("timed out waiting for scheduled jobs to finish")
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

// startCron registers the recurring jobs and starts the scheduler. The daily
// report job is registered only when Metabase and Slack are configured.
func startCron(ctx context.Context, cfg *config.CronConfig, loc *time.Location, announceHandler *handler.AnnounceHandler, refresher *studio.Refresher, reportSvc *report.Service) (*cron.Cron, error) {
	scheduler := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	if _, err := scheduler.AddFunc(cfg.Remind, func() {
		announceHandler.RunScheduled(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid remind schedule %q: %w", cfg.Remind, err)
	}

	if _, err := scheduler.AddFunc(cfg.RefreshEvents, func() {
		if _, err := refresher.Refresh(ctx, time.Now().In(loc)); err != nil {
			slog.ErrorContext(ctx, "scheduled events refresh failed",
				slog.String("error", err.Error()),
			)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid events refresh schedule %q: %w", cfg.RefreshEvents, err)
	}

	if reportSvc != nil {
		if _, err := scheduler.AddFunc(cfg.DailyReport, func() {
			if _, err := reportSvc.Run(ctx, time.Now().In(loc), false); err != nil {
				slog.ErrorContext(ctx, "scheduled daily report failed",
					slog.String("error", err.Error()),
				)
			}
		}); err != nil {
			return nil, fmt.Errorf("invalid daily report schedule %q: %w", cfg.DailyReport, err)
		}
	}

	scheduler.Start()
	slog.Info("cron schedules registered",
		slog.String("remind", cfg.Remind),
		slog.String("refresh_events", cfg.RefreshEvents),
		slog.Bool("daily_report", reportSvc != nil),
	)
	return scheduler, nil
}
