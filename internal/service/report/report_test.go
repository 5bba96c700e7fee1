package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kestrelworks/studio-announce/internal/infra/metabase"
)

func sampleRows() []metabase.Row {
	return []metabase.Row{
		{ProductName: "Online Membership", BillingCycle: "Monthly", ActiveSubs: 130, RevenuePerCycle: 5850},
		{ProductName: "Online Membership", BillingCycle: "Yearly", ActiveSubs: 12, RevenuePerCycle: 6000},
		{ProductName: "Course Bundle", BillingCycle: "Monthly", ActiveSubs: 8, RevenuePerCycle: 320},
	}
}

func TestFormat(t *testing.T) {
	now := time.Date(2026, time.February, 4, 7, 0, 0, 0, time.UTC)

	got := Format(sampleRows(), now, "Kestrel Movement")
	want := strings.Join([]string{
		"📊 *Kestrel Movement Daily Status Report*",
		"_Wednesday, Feb 04, 2026_",
		"",
		"💰 *Active Subscriptions: 150*",
		"Total Revenue: $12,170/cycle",
		"",
		"*By Product:*",
		"✅ Course Bundle (Monthly): 8 subs - $320",
		"✅ Online Membership (Monthly): 130 subs - $5,850",
		"✅ Online Membership (Yearly): 12 subs - $6,000",
	}, "\n")

	if got != want {
		t.Errorf("Format mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormat_MonthlyLeadsOtherCyclesAlphabetical(t *testing.T) {
	rows := []metabase.Row{
		{ProductName: "Membership", BillingCycle: "Weekly", ActiveSubs: 1, RevenuePerCycle: 10},
		{ProductName: "Membership", BillingCycle: "Monthly", ActiveSubs: 2, RevenuePerCycle: 20},
		{ProductName: "Membership", BillingCycle: "Every 6 Months", ActiveSubs: 3, RevenuePerCycle: 30},
	}

	got := Format(rows, time.Date(2026, time.February, 4, 7, 0, 0, 0, time.UTC), "Studio")
	monthly := strings.Index(got, "(Monthly)")
	sixMonths := strings.Index(got, "(Every 6 Months)")
	weekly := strings.Index(got, "(Weekly)")
	if monthly < 0 || sixMonths < 0 || weekly < 0 {
		t.Fatalf("missing cycle lines:\n%s", got)
	}
	if !(monthly < sixMonths && sixMonths < weekly) {
		t.Errorf("cycle order wrong:\n%s", got)
	}
}

func TestFormat_StudioNameFallback(t *testing.T) {
	got := Format(sampleRows(), time.Now(), "")
	if !strings.HasPrefix(got, "📊 *Studio Daily Status Report*") {
		t.Errorf("unexpected header: %s", strings.SplitN(got, "\n", 2)[0])
	}
}

type fakeTokens struct {
	token     string
	remaining time.Duration
	err       error
}

func (f *fakeTokens) Load() (string, time.Duration, error) { return f.token, f.remaining, f.err }

type fakeRows struct {
	rows     []metabase.Row
	err      error
	gotToken string
}

func (f *fakeRows) FetchRows(_ context.Context, token string) ([]metabase.Row, error) {
	f.gotToken = token
	return f.rows, f.err
}

type fakePoster struct {
	posts []string
	err   error
}

func (f *fakePoster) Post(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.posts = append(f.posts, text)
	return nil
}

func TestRun_PostsFormattedReport(t *testing.T) {
	tokens := &fakeTokens{token: "tok", remaining: 48 * time.Hour}
	rows := &fakeRows{rows: sampleRows()}
	poster := &fakePoster{}
	svc := NewService(tokens, rows, poster, "Kestrel Movement")

	text, err := svc.Run(context.Background(), time.Date(2026, time.February, 4, 7, 0, 0, 0, time.UTC), false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if rows.gotToken != "tok" {
		t.Errorf("fetch used token %q", rows.gotToken)
	}
	if len(poster.posts) != 1 || poster.posts[0] != text {
		t.Errorf("posted %d messages, want the formatted report", len(poster.posts))
	}
	if !strings.Contains(text, "Active Subscriptions: 150") {
		t.Errorf("report missing totals:\n%s", text)
	}
}

func TestRun_DryRunDoesNotPost(t *testing.T) {
	poster := &fakePoster{}
	svc := NewService(&fakeTokens{token: "tok", remaining: time.Hour}, &fakeRows{rows: sampleRows()}, poster, "Studio")

	text, err := svc.Run(context.Background(), time.Now(), true)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(poster.posts) != 0 {
		t.Errorf("dry run posted %d messages", len(poster.posts))
	}
	if text == "" {
		t.Error("dry run returned empty report text")
	}
}

func TestRun_TokenLoadErrorAborts(t *testing.T) {
	svc := NewService(&fakeTokens{err: errors.New("no cache")}, &fakeRows{}, &fakePoster{}, "Studio")
	if _, err := svc.Run(context.Background(), time.Now(), false); err == nil {
		t.Error("expected an error")
	}
}

func TestRun_FetchErrorAborts(t *testing.T) {
	poster := &fakePoster{}
	svc := NewService(&fakeTokens{token: "tok", remaining: time.Hour}, &fakeRows{err: errors.New("bad gateway")}, poster, "Studio")
	if _, err := svc.Run(context.Background(), time.Now(), false); err == nil {
		t.Error("expected an error")
	}
	if len(poster.posts) != 0 {
		t.Errorf("posted despite fetch failure")
	}
}

func TestRun_PostErrorSurfaces(t *testing.T) {
	svc := NewService(&fakeTokens{token: "tok", remaining: time.Hour}, &fakeRows{rows: sampleRows()}, &fakePoster{err: errors.New("channel archived")}, "Studio")
	if _, err := svc.Run(context.Background(), time.Now(), false); err == nil {
		t.Error("expected an error")
	}
}
