package announce

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kestrelworks/studio-announce/internal/domain"
	"github.com/kestrelworks/studio-announce/internal/infra/docsource"
	"github.com/kestrelworks/studio-announce/internal/service/compose"
	"github.com/kestrelworks/studio-announce/internal/service/schedule"
)

const planDoc = `### Thursday — Alpha Flow
Original Class Date: January 15, 2026
Class Title: Alpha Flow

### Thursday — Beta Restore
Original Class Date: January 15, 2026
Class Title: Beta Restore
`

type fakeDoc struct {
	text string
	err  error
}

func (f *fakeDoc) Fetch(context.Context) (string, error) { return f.text, f.err }

type fakeStore struct {
	log     domain.SentLog
	loadErr error
	saveErr error
	saves   int
}

func (s *fakeStore) Load(context.Context) (domain.SentLog, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.log == nil {
		s.log = domain.SentLog{}
	}
	return s.log, nil
}

func (s *fakeStore) Save(_ context.Context, log domain.SentLog) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.log = log
	return nil
}

type fakeEvents struct {
	events []domain.Event
}

func (f *fakeEvents) Events(context.Context) []domain.Event { return f.events }

type fakeSender struct {
	name    string
	sendErr func(msg compose.Message) error
	sent    []compose.Message
}

func (f *fakeSender) Name() string { return f.name }

func (f *fakeSender) Send(_ context.Context, msg compose.Message) error {
	if f.sendErr != nil {
		if err := f.sendErr(msg); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, msg)
	return nil
}

func denver(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return loc
}

// Both classes start Thursday, January 15, 2026 at 08:00 Denver time, which
// is 15:00 UTC.
func platformEvents() []domain.Event {
	return []domain.Event{
		{ID: "42", Name: "Alpha Flow", StartRaw: "2026-01-15T15:00:00Z"},
		{ID: "77", Name: "Beta Restore", StartRaw: "2026-01-15T15:00:00Z"},
	}
}

func testSettings() Settings {
	return Settings{
		Offsets:        []int{24},
		Window:         15 * time.Minute,
		MatchTolerance: 15 * time.Minute,
		JoinBaseURL:    "https://book.example.com/event/details",
	}
}

func newTestEngine(t *testing.T, doc docsource.Source, store domain.StateStore, events EventSource, senders ...Sender) *Engine {
	t.Helper()
	loc := denver(t)
	parser := schedule.NewParser(loc, nil)
	composer := compose.NewComposer(loc, "Kestrel Movement", "https://kestrelmovement.example.com/calendar")
	return NewEngine(doc, parser, store, events, composer, senders, testSettings(), nil)
}

// runAt is five minutes into the 24-hour send window of both classes.
func runAt(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, time.January, 14, 8, 5, 0, 0, denver(t))
}

func TestRunOnce_DeliversAndMarksEachReminder(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{name: "email"}
	engine := newTestEngine(t, &fakeDoc{text: planDoc}, store, &fakeEvents{events: platformEvents()}, sender)

	result, err := engine.RunOnce(context.Background(), runAt(t), "run-1", false)
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if result.ParsedCount != 2 || result.DueCount != 2 || result.SentCount != 2 {
		t.Fatalf("unexpected counts: parsed=%d due=%d sent=%d", result.ParsedCount, result.DueCount, result.SentCount)
	}
	if result.FailedCount != 0 || result.SkippedCount != 0 {
		t.Fatalf("unexpected failures/skips: failed=%d skipped=%d", result.FailedCount, result.SkippedCount)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(sender.sent))
	}
	if store.saves != 2 {
		t.Errorf("expected a save after each delivery, got %d saves", store.saves)
	}
	if !store.log.Sent("2026-01-15::Alpha Flow", 24) || !store.log.Sent("2026-01-15::Beta Restore", 24) {
		t.Errorf("sent log missing marks: %v", store.log)
	}

	wantJoin := map[string]string{
		"Alpha Flow":   "https://book.example.com/event/details/42",
		"Beta Restore": "https://book.example.com/event/details/77",
	}
	for _, item := range result.Results {
		if !item.Success {
			t.Errorf("item %s not successful: %s", item.ClassID, item.Error)
		}
		if item.JoinURL != wantJoin[item.Title] {
			t.Errorf("join URL for %s = %q, want %q", item.Title, item.JoinURL, wantJoin[item.Title])
		}
		if !strings.Contains(item.Subject, "T-24h") {
			t.Errorf("subject missing offset: %q", item.Subject)
		}
	}
}

func TestRunOnce_DryRunNeitherSendsNorMarks(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{name: "email"}
	engine := newTestEngine(t, &fakeDoc{text: planDoc}, store, &fakeEvents{events: platformEvents()}, sender)

	result, err := engine.RunOnce(context.Background(), runAt(t), "run-dry", true)
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if result.SkippedCount != 2 || result.SentCount != 0 {
		t.Fatalf("unexpected counts: sent=%d skipped=%d", result.SentCount, result.SkippedCount)
	}
	if len(sender.sent) != 0 {
		t.Errorf("dry run delivered %d messages", len(sender.sent))
	}
	if store.saves != 0 {
		t.Errorf("dry run saved the sent log %d times", store.saves)
	}
	for _, item := range result.Results {
		if !item.Skipped || item.SkipReason != "dry run" {
			t.Errorf("item %s: skipped=%v reason=%q", item.ClassID, item.Skipped, item.SkipReason)
		}
	}
}

func TestRunOnce_SecondRunSendsNothing(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{name: "email"}
	engine := newTestEngine(t, &fakeDoc{text: planDoc}, store, &fakeEvents{events: platformEvents()}, sender)

	if _, err := engine.RunOnce(context.Background(), runAt(t), "run-1", false); err != nil {
		t.Fatalf("first run: %v", err)
	}

	later := runAt(t).Add(5 * time.Minute)
	result, err := engine.RunOnce(context.Background(), later, "run-2", false)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if result.DueCount != 0 || result.SentCount != 0 {
		t.Errorf("second run resent reminders: due=%d sent=%d", result.DueCount, result.SentCount)
	}
	if len(sender.sent) != 2 {
		t.Errorf("expected 2 total deliveries across both runs, got %d", len(sender.sent))
	}
}

func TestRunOnce_SenderFailureIsolatedPerReminder(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{
		name: "email",
		sendErr: func(msg compose.Message) error {
			if strings.Contains(msg.Subject, "Alpha Flow") {
				return errors.New("smtp unavailable")
			}
			return nil
		},
	}
	engine := newTestEngine(t, &fakeDoc{text: planDoc}, store, &fakeEvents{events: platformEvents()}, sender)

	result, err := engine.RunOnce(context.Background(), runAt(t), "run-1", false)
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if result.SentCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts: sent=%d failed=%d", result.SentCount, result.FailedCount)
	}
	if store.log.Sent("2026-01-15::Alpha Flow", 24) {
		t.Error("failed reminder was marked sent")
	}
	if !store.log.Sent("2026-01-15::Beta Restore", 24) {
		t.Error("delivered reminder was not marked sent")
	}
	for _, item := range result.Results {
		if item.Title == "Alpha Flow" {
			if item.Success {
				t.Error("failed item reported success")
			}
			if !strings.Contains(item.Error, "email") {
				t.Errorf("item error missing channel: %q", item.Error)
			}
		}
	}

	retry, err := engine.RunOnce(context.Background(), runAt(t).Add(time.Minute), "run-2", false)
	if err != nil {
		t.Fatalf("retry run: %v", err)
	}
	if retry.DueCount != 1 {
		t.Errorf("failed reminder not due again: due=%d", retry.DueCount)
	}
}

func TestRunOnce_AnySenderSuccessMarksSent(t *testing.T) {
	store := &fakeStore{}
	broken := &fakeSender{
		name:    "whatsapp",
		sendErr: func(compose.Message) error { return errors.New("account suspended") },
	}
	working := &fakeSender{name: "email"}
	engine := newTestEngine(t, &fakeDoc{text: planDoc}, store, &fakeEvents{events: platformEvents()}, broken, working)

	result, err := engine.RunOnce(context.Background(), runAt(t), "run-1", false)
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if result.SentCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected counts: sent=%d failed=%d", result.SentCount, result.FailedCount)
	}
	if !store.log.Sent("2026-01-15::Alpha Flow", 24) || !store.log.Sent("2026-01-15::Beta Restore", 24) {
		t.Error("reminders not marked despite a successful channel")
	}
	for _, item := range result.Results {
		if !item.Success {
			t.Errorf("item %s not successful", item.ClassID)
		}
		if !strings.Contains(item.Error, "whatsapp") {
			t.Errorf("item error should record the failed channel, got %q", item.Error)
		}
	}
}

func TestRunOnce_DocumentFetchErrorAborts(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, &fakeDoc{err: errors.New("doc unreachable")}, store, &fakeEvents{}, &fakeSender{name: "email"})

	result, err := engine.RunOnce(context.Background(), runAt(t), "run-1", false)
	if err == nil {
		t.Fatal("expected an error")
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	if store.saves != 0 {
		t.Errorf("aborted run saved the sent log %d times", store.saves)
	}
}

func TestRunOnce_StateLoadErrorAborts(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("redis down")}
	engine := newTestEngine(t, &fakeDoc{text: planDoc}, store, &fakeEvents{}, &fakeSender{name: "email"})

	if _, err := engine.RunOnce(context.Background(), runAt(t), "run-1", false); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRunOnce_EmptyDocumentReturnsEmptyResult(t *testing.T) {
	sender := &fakeSender{name: "email"}
	engine := newTestEngine(t, &fakeDoc{text: "no class blocks here"}, &fakeStore{}, &fakeEvents{}, sender)

	result, err := engine.RunOnce(context.Background(), runAt(t), "run-1", false)
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if result.ParsedCount != 0 || result.DueCount != 0 || len(result.Results) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(sender.sent) != 0 {
		t.Errorf("delivered %d messages from an empty document", len(sender.sent))
	}
}

func TestRunOnce_NothingDueOutsideWindow(t *testing.T) {
	sender := &fakeSender{name: "email"}
	engine := newTestEngine(t, &fakeDoc{text: planDoc}, &fakeStore{}, &fakeEvents{events: platformEvents()}, sender)

	early := time.Date(2026, time.January, 13, 8, 5, 0, 0, denver(t))
	result, err := engine.RunOnce(context.Background(), early, "run-1", false)
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if result.ParsedCount != 2 || result.DueCount != 0 {
		t.Errorf("unexpected counts: parsed=%d due=%d", result.ParsedCount, result.DueCount)
	}
	if len(sender.sent) != 0 {
		t.Errorf("delivered %d messages outside the window", len(sender.sent))
	}
}

func TestRunOnce_SaveFailureKeepsItemSuccessful(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	sender := &fakeSender{name: "email"}
	engine := newTestEngine(t, &fakeDoc{text: planDoc}, store, &fakeEvents{events: platformEvents()}, sender)

	result, err := engine.RunOnce(context.Background(), runAt(t), "run-1", false)
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if result.SentCount != 2 || result.FailedCount != 0 {
		t.Errorf("unexpected counts: sent=%d failed=%d", result.SentCount, result.FailedCount)
	}
}

func TestRunOnce_NoEventsStillDelivers(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{name: "email"}
	engine := newTestEngine(t, &fakeDoc{text: planDoc}, store, &fakeEvents{}, sender)

	result, err := engine.RunOnce(context.Background(), runAt(t), "run-1", false)
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if result.SentCount != 2 {
		t.Fatalf("unexpected sent count: %d", result.SentCount)
	}
	for _, item := range result.Results {
		if item.JoinURL != "" {
			t.Errorf("item %s has a join URL without platform events: %q", item.ClassID, item.JoinURL)
		}
	}
	for _, msg := range sender.sent {
		if !strings.Contains(msg.Block, "https://kestrelmovement.example.com/calendar") {
			t.Error("message missing the calendar fallback link")
		}
	}
}
