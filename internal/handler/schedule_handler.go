package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kestrelworks/studio-announce/internal/domain"
	"github.com/kestrelworks/studio-announce/internal/infra/docsource"
	"github.com/kestrelworks/studio-announce/internal/service/icsfeed"
	"github.com/kestrelworks/studio-announce/internal/service/schedule"
)

// ScheduleHandler previews the parsed schedule document and serves it as an
// iCalendar feed.
type ScheduleHandler struct {
	doc          docsource.Source
	parser       *schedule.Parser
	loc          *time.Location
	studioName   string
	feedDuration time.Duration
}

func NewScheduleHandler(doc docsource.Source, parser *schedule.Parser, loc *time.Location, studioName string, feedDuration time.Duration) *ScheduleHandler {
	return &ScheduleHandler{
		doc:          doc,
		parser:       parser,
		loc:          loc,
		studioName:   studioName,
		feedDuration: feedDuration,
	}
}

type scheduleEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Series      string `json:"series,omitempty"`
	Date        string `json:"date"`
	StartAt     string `json:"start_at"`
	Description string `json:"description,omitempty"`
	Affirmation string `json:"affirmation,omitempty"`
	KeyActions  string `json:"key_actions,omitempty"`
	ClassFocus  string `json:"class_focus,omitempty"`
	Categories  string `json:"categories,omitempty"`
}

func (h *ScheduleHandler) parseEntries(c *gin.Context) ([]domain.ClassEntry, bool) {
	ctx := c.Request.Context()

	text, err := h.doc.Fetch(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch schedule document",
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadGateway, errorResponse{
			Error:   "document_unavailable",
			Message: err.Error(),
		})
		return nil, false
	}

	return h.parser.Parse(ctx, text, time.Now().In(h.loc)), true
}

func (h *ScheduleHandler) HandleSchedule(c *gin.Context) {
	entries, ok := h.parseEntries(c)
	if !ok {
		return
	}

	out := make([]scheduleEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, scheduleEntry{
			ID:          entry.ID(),
			Title:       entry.Title,
			Series:      entry.Series,
			Date:        domain.DateKey(entry.Date),
			StartAt:     entry.StartAt.Format(time.RFC3339),
			Description: entry.Description,
			Affirmation: entry.Affirmation,
			KeyActions:  entry.KeyActions,
			ClassFocus:  entry.ClassFocus,
			Categories:  entry.Categories,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(out),
		"entries": out,
	})
}

func (h *ScheduleHandler) HandleCalendarFeed(c *gin.Context) {
	entries, ok := h.parseEntries(c)
	if !ok {
		return
	}

	cal := icsfeed.Build(entries, h.studioName, h.feedDuration)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}
