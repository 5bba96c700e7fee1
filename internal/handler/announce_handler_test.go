package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kestrelworks/studio-announce/internal/domain"
	"github.com/kestrelworks/studio-announce/internal/infra/docsource"
	"github.com/kestrelworks/studio-announce/internal/infra/state"
	"github.com/kestrelworks/studio-announce/internal/service/announce"
	"github.com/kestrelworks/studio-announce/internal/service/compose"
	"github.com/kestrelworks/studio-announce/internal/service/schedule"
)

const testPlanDoc = `### Thursday — Alpha Flow
Original Class Date: January 15, 2026
Class Title: Alpha Flow

### Thursday — Beta Restore
Original Class Date: January 15, 2026
Class Title: Beta Restore
`

type stubSender struct {
	sent int
}

func (s *stubSender) Name() string { return "stub" }

func (s *stubSender) Send(context.Context, compose.Message) error {
	s.sent++
	return nil
}

type noEvents struct{}

func (noEvents) Events(context.Context) []domain.Event { return nil }

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return loc
}

func newTestAnnounceHandler(t *testing.T, docText string) (*AnnounceHandler, *stubSender) {
	t.Helper()
	dir := t.TempDir()

	docPath := filepath.Join(dir, "plan.txt")
	if docText != "" {
		if err := os.WriteFile(docPath, []byte(docText), 0o644); err != nil {
			t.Fatalf("failed to write plan doc: %v", err)
		}
	}

	loc := testLocation(t)
	sender := &stubSender{}
	engine := announce.NewEngine(
		docsource.NewFileSource(docPath),
		schedule.NewParser(loc, nil),
		state.NewFileStore(filepath.Join(dir, "state.json")),
		noEvents{},
		compose.NewComposer(loc, "Kestrel Movement", "https://kestrelmovement.example.com/calendar"),
		[]announce.Sender{sender},
		announce.Settings{Offsets: []int{24}, Window: 15 * time.Minute, MatchTolerance: 15 * time.Minute},
		nil,
	)
	return NewAnnounceHandler(engine, loc), sender
}

func newRunRouter(h *AnnounceHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/reminders/run", h.HandleRun)
	return r
}

func performRequest(t *testing.T, router http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleRun_VirtualTimeDryRun(t *testing.T) {
	h, sender := newTestAnnounceHandler(t, testPlanDoc)
	router := newRunRouter(h)

	w := performRequest(t, router, http.MethodPost,
		"/api/v1/reminders/run?now=2026-01-14T08:05:00-07:00&dry_run=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result announce.RunResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result.DryRun || result.SkippedCount != 2 || result.SentCount != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
	if sender.sent != 0 {
		t.Errorf("dry run delivered %d messages", sender.sent)
	}
}

func TestHandleRun_DeliversAndReturnsRunID(t *testing.T) {
	h, sender := newTestAnnounceHandler(t, testPlanDoc)
	router := newRunRouter(h)

	w := performRequest(t, router, http.MethodPost,
		"/api/v1/reminders/run?now=2026-01-14T08:05:00-07:00",
		map[string]string{"X-Run-ID": "manual-run-7"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result announce.RunResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.RunID != "manual-run-7" {
		t.Errorf("run id = %q, want manual-run-7", result.RunID)
	}
	if result.SentCount != 2 || sender.sent != 2 {
		t.Errorf("sent = %d (handler) / %d (sender), want 2", result.SentCount, sender.sent)
	}
}

func TestHandleRun_GeneratesRunID(t *testing.T) {
	h, _ := newTestAnnounceHandler(t, testPlanDoc)
	router := newRunRouter(h)

	w := performRequest(t, router, http.MethodPost,
		"/api/v1/reminders/run?now=2026-01-14T08:05:00-07:00&dry_run=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result announce.RunResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.RunID == "" {
		t.Error("run id not generated")
	}
}

func TestHandleRun_InvalidNow(t *testing.T) {
	h, _ := newTestAnnounceHandler(t, testPlanDoc)
	router := newRunRouter(h)

	w := performRequest(t, router, http.MethodPost, "/api/v1/reminders/run?now=yesterday", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRun_ConflictWhileRunning(t *testing.T) {
	h, _ := newTestAnnounceHandler(t, testPlanDoc)
	router := newRunRouter(h)

	h.runMu.Lock()
	defer h.runMu.Unlock()

	w := performRequest(t, router, http.MethodPost, "/api/v1/reminders/run", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestHandleRun_DocumentErrorIs500(t *testing.T) {
	h, _ := newTestAnnounceHandler(t, "")
	router := newRunRouter(h)

	w := performRequest(t, router, http.MethodPost, "/api/v1/reminders/run", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error != "processing_error" {
		t.Errorf("error code = %q", resp.Error)
	}
}
