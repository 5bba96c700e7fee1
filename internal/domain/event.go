package domain

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Event is one booking-platform event. Raw timestamps are kept as received
// because the platform mixes RFC 3339 and zone-less forms; Start resolves
// them on demand.
type Event struct {
	ID        string
	Name      string
	StartRaw  string
	EndRaw    string
	Type      string
	Cancelled bool
	WWW       bool
}

// Start parses the raw start timestamp. Timestamps without zone information
// are treated as UTC.
func (e Event) Start() (time.Time, error) {
	raw := strings.TrimSpace(e.StartRaw)
	if raw == "" {
		return time.Time{}, ErrEventStartMissing
	}
	return dateparse.ParseIn(raw, time.UTC)
}
