package studio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientFetchEvents(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Write([]byte(`[
			{"id": 101, "event_name": "Morning Flow", "event_start_datetime": "2026-01-15T15:00:00Z", "event_type": "livestream"},
			{"id": "ev-202", "event_name": "Evening Restore", "event_start_datetime": "2026-01-15 17:30:00", "is_cancelled": true}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "https://studio.example.com")
	events, err := client.FetchEvents(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != "101" {
		t.Errorf("expected numeric id kept as literal, got %q", events[0].ID)
	}
	if events[1].ID != "ev-202" {
		t.Errorf("expected string id kept, got %q", events[1].ID)
	}
	if events[0].Name != "Morning Flow" {
		t.Errorf("unexpected event name %q", events[0].Name)
	}
	if events[1].StartRaw != "2026-01-15 17:30:00" {
		t.Errorf("expected raw start preserved, got %q", events[1].StartRaw)
	}
	if !events[1].Cancelled {
		t.Error("expected cancelled flag to carry through")
	}

	if ua := gotHeaders.Get("User-Agent"); !strings.HasPrefix(ua, "Mozilla/5.0") {
		t.Errorf("expected browser user agent, got %q", ua)
	}
	if accept := gotHeaders.Get("Accept"); accept != "application/json, text/plain, */*" {
		t.Errorf("unexpected Accept header %q", accept)
	}
	if referer := gotHeaders.Get("Referer"); referer != "https://studio.example.com/calendar" {
		t.Errorf("unexpected Referer header %q", referer)
	}
	if origin := gotHeaders.Get("Origin"); origin != "https://studio.example.com" {
		t.Errorf("unexpected Origin header %q", origin)
	}
}

func TestClientFetchEventsZeroIDBecomesEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 0, "event_name": "No ID", "event_start_datetime": "2026-01-15T15:00:00Z"}]`))
	}))
	defer server.Close()

	events, err := NewClient(server.URL, "").FetchEvents(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID != "" {
		t.Errorf("expected zero id collapsed to empty string, got %q", events[0].ID)
	}
}

func TestClientFetchEventsNonArrayResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "maintenance"}`))
	}))
	defer server.Close()

	events, err := NewClient(server.URL, "").FetchEvents(context.Background())
	if err != nil {
		t.Fatalf("expected non-array response to be tolerated, got error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty event list, got %d", len(events))
	}
}

func TestClientFetchEventsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").FetchEvents(context.Background())
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestClientFetchEventsNoSiteURLSkipsReferer(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	if _, err := NewClient(server.URL, "").FetchEvents(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if referer := gotHeaders.Get("Referer"); referer != "" {
		t.Errorf("expected no Referer header, got %q", referer)
	}
}
