package stub

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	storage *ClassStorage
}

func NewHandler(storage *ClassStorage) *Handler {
	return &Handler{storage: storage}
}

func (h *Handler) HandleReset(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	h.storage.Reset(runID)

	slog.Info("reset data", slog.String("run_id", runID))

	c.JSON(http.StatusOK, gin.H{
		"status": "reset complete",
		"run_id": runID,
	})
}

func (h *Handler) HandleSeed(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, sc := range req.Classes {
		startTime, err := time.Parse(time.RFC3339, sc.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time: " + sc.StartTime})
			return
		}

		duration := time.Duration(sc.DurationMinutes) * time.Minute
		if duration <= 0 {
			duration = 75 * time.Minute
		}
		eventType := sc.EventType
		if eventType == "" {
			eventType = "Class"
		}

		h.storage.AddClass(runID, &Class{
			Title:        sc.Title,
			StartTime:    startTime,
			Duration:     duration,
			EventType:    eventType,
			Cancelled:    sc.Cancelled,
			SkipEvent:    sc.SkipEvent,
			SkipDocument: sc.SkipDocument,
		})
	}

	slog.Info("seeded data",
		slog.String("run_id", runID),
		slog.Int("class_count", len(req.Classes)),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":      "seeded",
		"run_id":      runID,
		"class_count": len(req.Classes),
	})
}

// GET /api/studios/:slug/events?run_id=...
// Returns the platform-shaped JSON array the events client consumes.
func (h *Handler) HandleGetEvents(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	events := h.storage.Events(runID)

	slog.Debug("get events",
		slog.String("run_id", runID),
		slog.String("studio", c.Param("slug")),
		slog.Int("count", len(events)),
	)

	c.JSON(http.StatusOK, events)
}

// GET /doc.txt?run_id=...
// Returns the class-plan document for the run as plain text.
func (h *Handler) HandleGetDocument(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	doc := h.storage.Document(runID)

	slog.Debug("get document",
		slog.String("run_id", runID),
		slog.Int("bytes", len(doc)),
	)

	c.String(http.StatusOK, doc)
}
