package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const announceTracerName = "github.com/kestrelworks/studio-announce/internal/service/announce"

func AnnounceTracer() trace.Tracer {
	return otel.Tracer(announceTracerName)
}

func StartRunSpan(ctx context.Context, runID string, now time.Time, dryRun bool) (context.Context, trace.Span) {
	return AnnounceTracer().Start(ctx, "announce.run",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.String("run.now", now.Format(time.RFC3339)),
			attribute.Bool("run.dry_run", dryRun),
		),
	)
}

func StartDocumentFetchSpan(ctx context.Context) (context.Context, trace.Span) {
	return AnnounceTracer().Start(ctx, "announce.fetch_document",
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartMatchSpan(ctx context.Context, classID string, offsetHours int) (context.Context, trace.Span) {
	return AnnounceTracer().Start(ctx, "announce.match",
		trace.WithAttributes(
			attribute.String("class_id", classID),
			attribute.Int("offset_hours", offsetHours),
		),
	)
}

func StartDeliverySpan(ctx context.Context, channel, classID string, offsetHours int) (context.Context, trace.Span) {
	return AnnounceTracer().Start(ctx, "announce.delivery."+channel,
		trace.WithAttributes(
			attribute.String("channel", channel),
			attribute.String("class_id", classID),
			attribute.Int("offset_hours", offsetHours),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordRunResult(span trace.Span, parsed, due, sent, skipped, failed int, err error) {
	span.SetAttributes(
		attribute.Int("run.parsed_count", parsed),
		attribute.Int("run.due_count", due),
		attribute.Int("run.sent_count", sent),
		attribute.Int("run.skipped_count", skipped),
		attribute.Int("run.failed_count", failed),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordFetchResult(span trace.Span, size int, err error) {
	span.SetAttributes(attribute.Int("document.bytes", size))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordMatchResult(span trace.Span, matched bool) {
	span.SetAttributes(attribute.Bool("match.found", matched))
}

func RecordDeliveryResult(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
