package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const announceMeterName = "announce.engine"

type AnnounceMetrics struct {
	entriesParsed    metric.Int64Counter
	remindersDue     metric.Int64Counter
	remindersSent    metric.Int64Counter
	remindersSkipped metric.Int64Counter
	sendFailures     metric.Int64Counter
	runDuration      metric.Float64Histogram
	deliveryDuration metric.Float64Histogram
}

func NewAnnounceMetrics() (*AnnounceMetrics, error) {
	meter := otel.Meter(announceMeterName)

	entriesParsed, err := meter.Int64Counter(
		"announce_entries_parsed_total",
		metric.WithDescription("Total number of class entries parsed from the schedule document"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	remindersDue, err := meter.Int64Counter(
		"announce_reminders_due_total",
		metric.WithDescription("Total number of reminders whose send window was open"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	remindersSent, err := meter.Int64Counter(
		"announce_reminders_sent_total",
		metric.WithDescription("Total number of reminders delivered on at least one channel"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	remindersSkipped, err := meter.Int64Counter(
		"announce_reminders_skipped_total",
		metric.WithDescription("Total number of reminders skipped without delivery"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	sendFailures, err := meter.Int64Counter(
		"announce_send_failures_total",
		metric.WithDescription("Total number of failed channel deliveries"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"announce_run_duration_seconds",
		metric.WithDescription("Reminder pass duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	deliveryDuration, err := meter.Float64Histogram(
		"announce_delivery_duration_seconds",
		metric.WithDescription("Single channel delivery duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	return &AnnounceMetrics{
		entriesParsed:    entriesParsed,
		remindersDue:     remindersDue,
		remindersSent:    remindersSent,
		remindersSkipped: remindersSkipped,
		sendFailures:     sendFailures,
		runDuration:      runDuration,
		deliveryDuration: deliveryDuration,
	}, nil
}

func (m *AnnounceMetrics) RecordEntriesParsed(ctx context.Context, count int) {
	m.entriesParsed.Add(ctx, int64(count))
}

func (m *AnnounceMetrics) RecordRemindersDue(ctx context.Context, count int) {
	m.remindersDue.Add(ctx, int64(count))
}

func (m *AnnounceMetrics) RecordReminderSent(ctx context.Context, offsetHours int) {
	m.remindersSent.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("offset_hours", offsetHours),
	))
}

func (m *AnnounceMetrics) RecordReminderSkipped(ctx context.Context, reason string) {
	m.remindersSkipped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

func (m *AnnounceMetrics) RecordSendFailure(ctx context.Context, channel string) {
	m.sendFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
	))
}

func (m *AnnounceMetrics) RecordRunDuration(ctx context.Context, outcome string, duration time.Duration) {
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *AnnounceMetrics) RecordDeliveryDuration(ctx context.Context, channel string, duration time.Duration) {
	m.deliveryDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("channel", channel),
	))
}
