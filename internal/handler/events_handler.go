package handler

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

// EventLister yields the stored events snapshot.
type EventLister interface {
	Load(ctx context.Context) ([]domain.Event, error)
}

// EventRefresher re-pulls the booking platform and rewrites the snapshot,
// returning the number of events kept.
type EventRefresher interface {
	Refresh(ctx context.Context, now time.Time) (int, error)
}

// EventsHandler exposes the events snapshot and its refresh operation.
type EventsHandler struct {
	store     EventLister
	refresher EventRefresher
}

func NewEventsHandler(store EventLister, refresher EventRefresher) *EventsHandler {
	return &EventsHandler{
		store:     store,
		refresher: refresher,
	}
}

type eventResponse struct {
	ID          string `json:"id"`
	Name        string `json:"event_name"`
	Start       string `json:"event_start_datetime"`
	End         string `json:"event_end_datetime,omitempty"`
	Type        string `json:"event_type,omitempty"`
	IsCancelled bool   `json:"is_cancelled"`
	IsWWWEvent  bool   `json:"is_www_event"`
}

func (h *EventsHandler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()

	events, err := h.store.Load(ctx)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.ErrorContext(ctx, "failed to load events snapshot",
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "snapshot_unreadable",
			Message: err.Error(),
		})
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, eventResponse{
			ID:          event.ID,
			Name:        event.Name,
			Start:       event.StartRaw,
			End:         event.EndRaw,
			Type:        event.Type,
			IsCancelled: event.Cancelled,
			IsWWWEvent:  event.WWW,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(out),
		"events": out,
	})
}

func (h *EventsHandler) HandleRefresh(c *gin.Context) {
	ctx := c.Request.Context()

	kept, err := h.refresher.Refresh(ctx, time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "events refresh failed",
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadGateway, errorResponse{
			Error:   "refresh_failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"kept": kept})
}
