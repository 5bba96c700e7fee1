package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCheck_FilePaths(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	snapshotPath := filepath.Join(dir, "events.json")
	if err := os.WriteFile(snapshotPath, []byte("[]"), 0o644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	checker := NewChecker(nil, statePath, snapshotPath, "test")
	status := checker.Check(context.Background())

	if status.Status != StatusHealthy {
		t.Fatalf("status = %s, want healthy: %+v", status.Status, status.Checks)
	}
	if got := status.Checks["state_file"]; got.Detail != "not created yet" {
		t.Errorf("state_file check = %+v", got)
	}
	if got := status.Checks["events_snapshot"]; got.Status != StatusHealthy || got.Detail != "" {
		t.Errorf("events_snapshot check = %+v", got)
	}
	if _, ok := status.Checks["redis"]; ok {
		t.Error("redis check present without a redis client")
	}
}

func TestCheck_DirectoryPathIsUnhealthy(t *testing.T) {
	dir := t.TempDir()

	checker := NewChecker(nil, dir, "", "test")
	status := checker.Check(context.Background())

	if status.Status != StatusUnhealthy {
		t.Errorf("status = %s, want unhealthy", status.Status)
	}
	if got := status.Checks["state_file"]; got.Status != StatusUnhealthy {
		t.Errorf("state_file check = %+v", got)
	}
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	checker := NewChecker(nil, "", "", "1.2.3")

	r := gin.New()
	r.GET("/health/live", checker.LiveHandler())
	r.GET("/health/ready", checker.ReadyHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK {
		t.Errorf("live status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("ready status = %d", w.Code)
	}

	var status HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if status.Version != "1.2.3" {
		t.Errorf("version = %q", status.Version)
	}
}
