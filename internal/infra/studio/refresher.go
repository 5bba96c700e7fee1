package studio

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

// pastGrace keeps events that started up to a day ago so an in-progress
// class is still matchable.
const pastGrace = 24 * time.Hour

// Refresher pulls the live event list, trims it to a rolling window, and
// rewrites the local snapshot.
type Refresher struct {
	client        *Client
	store         *SnapshotStore
	lookaheadDays int
}

func NewRefresher(client *Client, store *SnapshotStore, lookaheadDays int) *Refresher {
	return &Refresher{client: client, store: store, lookaheadDays: lookaheadDays}
}

// Refresh fetches, filters, and saves. It returns the number of events kept.
func (r *Refresher) Refresh(ctx context.Context, now time.Time) (int, error) {
	events, err := r.client.FetchEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("refresh events: %w", err)
	}

	kept := r.filterWindow(ctx, events, now)
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].StartRaw < kept[j].StartRaw
	})

	if err := r.store.Save(ctx, kept); err != nil {
		return 0, fmt.Errorf("refresh events: %w", err)
	}

	slog.InfoContext(ctx, "events snapshot refreshed",
		slog.Int("kept", len(kept)),
		slog.Int("fetched", len(events)),
		slog.Int("lookahead_days", r.lookaheadDays),
	)

	return len(kept), nil
}

func (r *Refresher) filterWindow(ctx context.Context, events []domain.Event, now time.Time) []domain.Event {
	floor := now.Add(-pastGrace)
	cutoff := now.Add(time.Duration(r.lookaheadDays) * 24 * time.Hour)

	kept := make([]domain.Event, 0, len(events))
	for _, ev := range events {
		start, err := ev.Start()
		if err != nil {
			slog.DebugContext(ctx, "dropping event with unusable start",
				slog.String("event_id", ev.ID),
				slog.String("start_raw", ev.StartRaw),
			)
			continue
		}
		if start.Before(floor) || start.After(cutoff) {
			continue
		}
		kept = append(kept, ev)
	}

	return kept
}
