package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kestrelworks/studio-announce/internal/service/announce"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AnnounceHandler exposes the reminder engine over HTTP. Passes are
// serialized: a trigger while one is running gets 409.
type AnnounceHandler struct {
	engine *announce.Engine
	loc    *time.Location

	runMu sync.Mutex
}

func NewAnnounceHandler(engine *announce.Engine, loc *time.Location) *AnnounceHandler {
	return &AnnounceHandler{
		engine: engine,
		loc:    loc,
	}
}

func (h *AnnounceHandler) HandleRun(c *gin.Context) {
	ctx := c.Request.Context()

	now := time.Now().In(h.loc)
	if nowStr := c.Query("now"); nowStr != "" {
		parsed, err := time.Parse(time.RFC3339, nowStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{
				Error:   "invalid_request",
				Message: "invalid now time format, expected RFC3339",
			})
			return
		}
		now = parsed.In(h.loc)
		slog.InfoContext(ctx, "using virtual time",
			slog.Time("virtual_now", now),
		)
	}

	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))

	runID := c.GetHeader("X-Run-ID")
	if runID == "" {
		runID = uuid.NewString()
	}

	if !h.runMu.TryLock() {
		c.JSON(http.StatusConflict, errorResponse{
			Error:   "run_in_progress",
			Message: "a reminder pass is already running",
		})
		return
	}
	defer h.runMu.Unlock()

	result, err := h.engine.RunOnce(ctx, now, runID, dryRun)
	if err != nil {
		slog.ErrorContext(ctx, "reminder pass failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "processing_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// RunScheduled executes one pass for the cron trigger, sharing the run lock
// with the HTTP trigger. An overlapping pass is skipped rather than queued.
func (h *AnnounceHandler) RunScheduled(ctx context.Context) {
	if !h.runMu.TryLock() {
		slog.InfoContext(ctx, "skipping scheduled reminder pass, another is running")
		return
	}
	defer h.runMu.Unlock()

	runID := uuid.NewString()
	if _, err := h.engine.RunOnce(ctx, time.Now().In(h.loc), runID, false); err != nil {
		slog.ErrorContext(ctx, "scheduled reminder pass failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
	}
}
