package stub

// EventResponse mirrors the booking platform's event JSON, the shape the
// events client consumes in production.
type EventResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"event_name"`
	Start     string `json:"event_start_datetime"`
	End       string `json:"event_end_datetime"`
	Type      string `json:"event_type"`
	Cancelled bool   `json:"is_cancelled"`
	WWW       bool   `json:"is_www_event"`
}

type SeedRequest struct {
	Classes []SeedClass `json:"classes"`
}

// SeedClass describes one synthetic class. StartTime is RFC3339 and should
// fall on the studio's standing start time for its weekday when the run
// exercises join-link matching.
type SeedClass struct {
	Title           string `json:"title"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	EventType       string `json:"event_type"`
	Cancelled       bool   `json:"cancelled"`
	SkipEvent       bool   `json:"skip_event"`
	SkipDocument    bool   `json:"skip_document"`
}
