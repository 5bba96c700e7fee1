// Package studio talks to the booking platform: live event fetches, the
// trimmed local snapshot, and the scheduled refresher that maintains it.
package studio

import (
	"bytes"
	"encoding/json"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

// eventRecord is the trimmed wire and snapshot form of one platform event.
// Timestamps stay raw strings so the snapshot round-trips exactly what the
// platform sent.
type eventRecord struct {
	ID        flexID `json:"id"`
	Name      string `json:"event_name"`
	Start     string `json:"event_start_datetime"`
	End       string `json:"event_end_datetime"`
	Type      string `json:"event_type"`
	Cancelled bool   `json:"is_cancelled"`
	WWW       bool   `json:"is_www_event"`
}

// flexID tolerates the platform's mixed id encodings. Numbers keep their
// literal form, zero and null collapse to the empty string so downstream
// code has a single "no usable id" marker.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	if v, err := n.Float64(); err == nil && v == 0 {
		*f = ""
		return nil
	}
	*f = flexID(n.String())
	return nil
}

func (r eventRecord) toDomain() domain.Event {
	return domain.Event{
		ID:        string(r.ID),
		Name:      r.Name,
		StartRaw:  r.Start,
		EndRaw:    r.End,
		Type:      r.Type,
		Cancelled: r.Cancelled,
		WWW:       r.WWW,
	}
}

func recordFromDomain(e domain.Event) eventRecord {
	return eventRecord{
		ID:        flexID(e.ID),
		Name:      e.Name,
		Start:     e.StartRaw,
		End:       e.EndRaw,
		Type:      e.Type,
		Cancelled: e.Cancelled,
		WWW:       e.WWW,
	}
}

func recordsToDomain(records []eventRecord) []domain.Event {
	events := make([]domain.Event, 0, len(records))
	for _, r := range records {
		events = append(events, r.toDomain())
	}
	return events
}

func recordsFromDomain(events []domain.Event) []eventRecord {
	records := make([]eventRecord, 0, len(events))
	for _, e := range events {
		records = append(records, recordFromDomain(e))
	}
	return records
}
