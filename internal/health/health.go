package health

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a service or dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the health check result for a single dependency.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Checker performs health checks on service dependencies. The Redis client
// is nil when the file state backend is active; paths are skipped when
// empty.
type Checker struct {
	redisClient  *redis.Client
	statePath    string
	snapshotPath string
	version      string
}

// NewChecker creates a new health checker with the given dependencies.
func NewChecker(redisClient *redis.Client, statePath, snapshotPath, version string) *Checker {
	return &Checker{
		redisClient:  redisClient,
		statePath:    statePath,
		snapshotPath: snapshotPath,
		version:      version,
	}
}

// Check performs health checks on all dependencies and returns the overall status.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult),
	}

	if c.redisClient != nil {
		start := time.Now()
		if err := c.redisClient.Ping(checkCtx).Err(); err != nil {
			status.Status = StatusUnhealthy
			status.Checks["redis"] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
		} else {
			status.Checks["redis"] = CheckResult{
				Status:    StatusHealthy,
				LatencyMs: time.Since(start).Milliseconds(),
			}
		}
	}

	if c.statePath != "" {
		result := checkFile(c.statePath)
		status.Checks["state_file"] = result
		if result.Status != StatusHealthy {
			status.Status = StatusUnhealthy
		}
	}
	if c.snapshotPath != "" {
		result := checkFile(c.snapshotPath)
		status.Checks["events_snapshot"] = result
		if result.Status != StatusHealthy {
			status.Status = StatusUnhealthy
		}
	}

	return status
}

// checkFile stats a state path. A file that does not exist yet is healthy;
// it will be created on the first write.
func checkFile(path string) CheckResult {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CheckResult{Status: StatusHealthy, Detail: "not created yet"}
		}
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "path is a directory"}
	}
	return CheckResult{Status: StatusHealthy}
}

// LiveHandler returns a Gin handler for liveness probes.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler returns a Gin handler for readiness probes.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}
