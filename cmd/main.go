package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kestrelworks/studio-announce/internal/config"
	"github.com/kestrelworks/studio-announce/internal/observability"
	"github.com/kestrelworks/studio-announce/internal/observability/logging"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env file is fine; explicit environment always wins.
	_ = godotenv.Load()

	command := "remind"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "remind":
		return runRemind(args)
	case "serve":
		return runServe(args)
	case "refresh-events":
		return runRefreshEvents(args)
	case "report":
		return runReport(args)
	case "refresh-token":
		return runRefreshToken(args)
	case "export-ics":
		return runExportICS(args)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: studio-announce [command] [flags]

Commands:
  remind          run one reminder pass (default)
  serve           run the HTTP server with scheduled passes
  refresh-events  refresh the booking-platform events snapshot
  report          post the daily status report to Slack
  refresh-token   refresh the cached report embed token via headless browser
  export-ics      export the parsed schedule as an iCalendar file

Run 'studio-announce <command> -h' for command flags.
`)
}

// app holds what every command needs after startup: parsed configuration,
// the studio timezone and the observability teardown.
type app struct {
	cfg         *config.Config
	loc         *time.Location
	obsShutdown func(context.Context) error
}

func newApp(ctx context.Context, configPath string) (*app, int) {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return nil, 1
	}

	slog.SetDefault(logging.NewLogger(cfg.LogLevel, cfg.LogFormat))

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid timezone configuration", slog.String("error", err.Error()))
		return nil, 1
	}

	obsShutdown, err := observability.Setup(ctx, "studio-announce", Version)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return nil, 1
	}

	return &app{cfg: cfg, loc: loc, obsShutdown: obsShutdown}, 0
}

func (a *app) close() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.obsShutdown(shutdownCtx); err != nil {
		slog.Warn("observability shutdown error", slog.String("error", err.Error()))
	}
}
