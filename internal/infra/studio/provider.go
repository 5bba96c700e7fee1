package studio

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

// Provider yields events for matching: the local snapshot when present,
// the live API otherwise. Event lookup only upgrades reminders with join
// links, so every failure degrades to an empty list instead of an error.
type Provider struct {
	store  *SnapshotStore
	client *Client
}

func NewProvider(store *SnapshotStore, client *Client) *Provider {
	return &Provider{store: store, client: client}
}

func (p *Provider) Events(ctx context.Context) []domain.Event {
	events, err := p.store.Load(ctx)
	if err == nil {
		slog.DebugContext(ctx, "using events snapshot",
			slog.Int("count", len(events)),
		)
		return events
	}
	if !errors.Is(err, fs.ErrNotExist) {
		slog.WarnContext(ctx, "events snapshot unreadable, falling back to live fetch",
			slog.String("error", err.Error()),
		)
	}

	events, err = p.client.FetchEvents(ctx)
	if err != nil {
		slog.WarnContext(ctx, "live event fetch failed, reminders will use calendar links",
			slog.String("error", err.Error()),
		)
		return nil
	}

	return events
}
