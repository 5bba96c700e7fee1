package announce

import "time"

// ResultItem is the outcome for one due reminder.
type ResultItem struct {
	ClassID     string    `json:"class_id"`
	Title       string    `json:"title"`
	OffsetHours int       `json:"offset_hours"`
	StartAt     time.Time `json:"start_at"`
	SendAt      time.Time `json:"send_at"`
	JoinURL     string    `json:"join_url,omitempty"`
	Subject     string    `json:"subject"`
	Skipped     bool      `json:"skipped"`
	SkipReason  string    `json:"skip_reason,omitempty"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
}

// RunResult summarizes one reminder pass.
type RunResult struct {
	RunID        string       `json:"run_id"`
	DryRun       bool         `json:"dry_run"`
	ParsedCount  int          `json:"parsed_count"`
	DueCount     int          `json:"due_count"`
	SentCount    int          `json:"sent_count"`
	SkippedCount int          `json:"skipped_count"`
	FailedCount  int          `json:"failed_count"`
	Results      []ResultItem `json:"results"`
}
