package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kestrelworks/studio-announce/internal/service/report"
)

// ReportHandler triggers the daily status report. The service is nil when
// Slack is not configured.
type ReportHandler struct {
	service *report.Service
	loc     *time.Location
}

func NewReportHandler(service *report.Service, loc *time.Location) *ReportHandler {
	return &ReportHandler{
		service: service,
		loc:     loc,
	}
}

func (h *ReportHandler) HandleDaily(c *gin.Context) {
	ctx := c.Request.Context()

	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{
			Error:   "report_not_configured",
			Message: "slack credentials and metabase settings are required for the daily report",
		})
		return
	}

	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))

	text, err := h.service.Run(ctx, time.Now().In(h.loc), dryRun)
	if err != nil {
		slog.ErrorContext(ctx, "daily report failed",
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "processing_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posted": !dryRun,
		"report": text,
	})
}
