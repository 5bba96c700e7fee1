// Package announce runs reminder passes: parse the schedule document, work
// out which reminders are due, match join links, compose, and deliver.
package announce

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kestrelworks/studio-announce/internal/domain"
	"github.com/kestrelworks/studio-announce/internal/infra/docsource"
	"github.com/kestrelworks/studio-announce/internal/observability/metrics"
	"github.com/kestrelworks/studio-announce/internal/observability/tracing"
	"github.com/kestrelworks/studio-announce/internal/service/compose"
	"github.com/kestrelworks/studio-announce/internal/service/due"
	"github.com/kestrelworks/studio-announce/internal/service/match"
	"github.com/kestrelworks/studio-announce/internal/service/schedule"
)

// Sender delivers one composed reminder on a single channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg compose.Message) error
}

// EventSource yields booking-platform events for join-link matching.
type EventSource interface {
	Events(ctx context.Context) []domain.Event
}

// Settings are the per-deployment knobs of a reminder pass.
type Settings struct {
	Offsets        []int
	Window         time.Duration
	MatchTolerance time.Duration
	JoinBaseURL    string
}

type Engine struct {
	doc             docsource.Source
	parser          *schedule.Parser
	store           domain.StateStore
	events          EventSource
	composer        *compose.Composer
	senders         []Sender
	settings        Settings
	announceMetrics *metrics.AnnounceMetrics
}

func NewEngine(
	doc docsource.Source,
	parser *schedule.Parser,
	store domain.StateStore,
	events EventSource,
	composer *compose.Composer,
	senders []Sender,
	settings Settings,
	announceMetrics *metrics.AnnounceMetrics,
) *Engine {
	return &Engine{
		doc:             doc,
		parser:          parser,
		store:           store,
		events:          events,
		composer:        composer,
		senders:         senders,
		settings:        settings,
		announceMetrics: announceMetrics,
	}
}

// RunOnce executes a single pass at the given time. Per-reminder failures
// are isolated; only document fetch and sent-log load abort the pass.
func (e *Engine) RunOnce(ctx context.Context, now time.Time, runID string, dryRun bool) (*RunResult, error) {
	started := time.Now()
	ctx, span := tracing.StartRunSpan(ctx, runID, now, dryRun)
	defer span.End()

	result := &RunResult{RunID: runID, DryRun: dryRun, Results: []ResultItem{}}

	fetchCtx, fetchSpan := tracing.StartDocumentFetchSpan(ctx)
	text, err := e.doc.Fetch(fetchCtx)
	tracing.RecordFetchResult(fetchSpan, len(text), err)
	fetchSpan.End()
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch schedule document",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		e.recordRun(ctx, span, result, started, err)
		return nil, fmt.Errorf("fetch schedule document: %w", err)
	}

	entries := e.parser.Parse(ctx, text, now)
	result.ParsedCount = len(entries)
	if e.announceMetrics != nil {
		e.announceMetrics.RecordEntriesParsed(ctx, len(entries))
	}
	if len(entries) == 0 {
		slog.WarnContext(ctx, "no classes parsed from schedule document, check the document format",
			slog.String("run_id", runID),
		)
		e.recordRun(ctx, span, result, started, nil)
		return result, nil
	}

	sentLog, err := e.store.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load sent log",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		e.recordRun(ctx, span, result, started, err)
		return nil, fmt.Errorf("load sent log: %w", err)
	}

	dueReminders := due.Compute(entries, e.settings.Offsets, now, sentLog, e.settings.Window)
	result.DueCount = len(dueReminders)
	if e.announceMetrics != nil {
		e.announceMetrics.RecordRemindersDue(ctx, len(dueReminders))
	}
	if len(dueReminders) == 0 {
		slog.InfoContext(ctx, "no reminders due",
			slog.String("run_id", runID),
			slog.Time("now", now),
			slog.Int("parsed", len(entries)),
		)
		e.recordRun(ctx, span, result, started, nil)
		return result, nil
	}

	slog.InfoContext(ctx, "reminders due",
		slog.String("run_id", runID),
		slog.Int("due", len(dueReminders)),
		slog.Bool("dry_run", dryRun),
	)

	index := match.NewEventIndex(e.events.Events(ctx), e.settings.MatchTolerance, e.settings.JoinBaseURL)

	for _, rem := range dueReminders {
		item := e.deliver(ctx, rem, index, sentLog, now, dryRun)
		result.Results = append(result.Results, item)
		switch {
		case item.Skipped:
			result.SkippedCount++
		case item.Success:
			result.SentCount++
		default:
			result.FailedCount++
		}
	}

	slog.InfoContext(ctx, "reminder pass complete",
		slog.String("run_id", runID),
		slog.Int("parsed", result.ParsedCount),
		slog.Int("due", result.DueCount),
		slog.Int("sent", result.SentCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("failed", result.FailedCount),
	)

	e.recordRun(ctx, span, result, started, nil)
	return result, nil
}

func (e *Engine) deliver(ctx context.Context, rem domain.DueReminder, index *match.EventIndex, sentLog domain.SentLog, now time.Time, dryRun bool) ResultItem {
	item := ResultItem{
		ClassID:     rem.Entry.ID(),
		Title:       rem.Entry.Title,
		OffsetHours: rem.OffsetHours,
		StartAt:     rem.Entry.StartAt,
		SendAt:      rem.SendAt,
	}

	_, matchSpan := tracing.StartMatchSpan(ctx, item.ClassID, rem.OffsetHours)
	joinURL, matched := index.JoinReferenceFor(rem.Entry)
	tracing.RecordMatchResult(matchSpan, matched)
	matchSpan.End()
	if matched {
		item.JoinURL = joinURL
	}

	msg := e.composer.Compose(rem, joinURL)
	item.Subject = msg.Subject

	if dryRun {
		fmt.Printf("--- DRY RUN: would send reminder ---\nSubject: %s\n\n%s\n--- END ---\n", msg.Subject, msg.Body)
		item.Skipped = true
		item.SkipReason = "dry run"
		if e.announceMetrics != nil {
			e.announceMetrics.RecordReminderSkipped(ctx, "dry_run")
		}
		return item
	}

	var sendErrs []string
	delivered := false
	for _, sender := range e.senders {
		deliveryStart := time.Now()
		deliveryCtx, deliverySpan := tracing.StartDeliverySpan(ctx, sender.Name(), item.ClassID, rem.OffsetHours)
		err := sender.Send(deliveryCtx, msg)
		tracing.RecordDeliveryResult(deliverySpan, err)
		deliverySpan.End()
		if e.announceMetrics != nil {
			e.announceMetrics.RecordDeliveryDuration(ctx, sender.Name(), time.Since(deliveryStart))
		}

		if err != nil {
			slog.ErrorContext(ctx, "failed to deliver reminder",
				slog.String("class_id", item.ClassID),
				slog.Int("offset_hours", rem.OffsetHours),
				slog.String("channel", sender.Name()),
				slog.String("error", err.Error()),
			)
			if e.announceMetrics != nil {
				e.announceMetrics.RecordSendFailure(ctx, sender.Name())
			}
			sendErrs = append(sendErrs, fmt.Sprintf("%s: %v", sender.Name(), err))
			continue
		}
		delivered = true
	}

	if len(sendErrs) > 0 {
		item.Error = strings.Join(sendErrs, "; ")
	}
	if !delivered {
		return item
	}

	item.Success = true
	sentLog.MarkSent(item.ClassID, rem.OffsetHours, now)
	if err := e.store.Save(ctx, sentLog); err != nil {
		slog.ErrorContext(ctx, "failed to save sent log after delivery",
			slog.String("class_id", item.ClassID),
			slog.Int("offset_hours", rem.OffsetHours),
			slog.String("error", err.Error()),
		)
	}
	if e.announceMetrics != nil {
		e.announceMetrics.RecordReminderSent(ctx, rem.OffsetHours)
	}

	slog.InfoContext(ctx, "reminder delivered",
		slog.String("class_id", item.ClassID),
		slog.Int("offset_hours", rem.OffsetHours),
		slog.Time("send_at", rem.SendAt),
		slog.Bool("join_link", matched),
	)

	return item
}

func (e *Engine) recordRun(ctx context.Context, span trace.Span, result *RunResult, started time.Time, err error) {
	tracing.RecordRunResult(span, result.ParsedCount, result.DueCount, result.SentCount, result.SkippedCount, result.FailedCount, err)

	if e.announceMetrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	e.announceMetrics.RecordRunDuration(ctx, outcome, time.Since(started))
}
