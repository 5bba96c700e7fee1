package slackpost

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
)

func TestPost_Webhook(t *testing.T) {
	var got struct {
		Text string `json:"text"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode webhook payload: %v", err)
		}
		if _, err := w.Write([]byte("ok")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	poster := NewPoster(server.URL, "", "")
	if err := poster.Post(context.Background(), "daily report"); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if got.Text != "daily report" {
		t.Errorf("webhook text = %q, want %q", got.Text, "daily report")
	}
}

func TestPost_BotToken(t *testing.T) {
	var gotChannel, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat.postMessage" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		gotChannel = r.FormValue("channel")
		gotText = r.FormValue("text")
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"ok":true,"channel":"C123","ts":"1"}`)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	poster := NewPoster("", "xoxb-test", "#studio-status", slack.OptionAPIURL(server.URL+"/"))
	if err := poster.Post(context.Background(), "daily report"); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if gotChannel != "#studio-status" {
		t.Errorf("channel = %q, want %q", gotChannel, "#studio-status")
	}
	if gotText != "daily report" {
		t.Errorf("text = %q, want %q", gotText, "daily report")
	}
}

func TestPost_WebhookPreferredOverBotToken(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		if _, err := w.Write([]byte("ok")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	poster := NewPoster(server.URL, "xoxb-unused", "#studio-status")
	if err := poster.Post(context.Background(), "report"); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if hits != 1 {
		t.Errorf("webhook hits = %d, want 1", hits)
	}
	if poster.client != nil {
		t.Error("bot client built despite webhook configuration")
	}
}

func TestPost_NotConfigured(t *testing.T) {
	poster := NewPoster("", "", "")
	if err := poster.Post(context.Background(), "report"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
