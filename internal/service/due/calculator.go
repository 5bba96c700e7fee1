// Package due decides which reminders should fire at a given instant.
package due

import (
	"time"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

// Compute returns the reminders whose send window is open at now and that
// the sent-log has not recorded yet. A window opens at StartAt minus the
// offset and stays open for the window duration, closing exclusively.
// Results are ordered entries-major, offsets-minor, both in input order.
// Compute never mutates its inputs.
func Compute(entries []domain.ClassEntry, offsets []int, now time.Time, sent domain.SentLog, window time.Duration) []domain.DueReminder {
	var due []domain.DueReminder
	for _, entry := range entries {
		for _, offset := range offsets {
			sendAt := entry.StartAt.Add(-time.Duration(offset) * time.Hour)
			if now.Before(sendAt) || !now.Before(sendAt.Add(window)) {
				continue
			}
			if sent.Sent(entry.ID(), offset) {
				continue
			}
			due = append(due, domain.DueReminder{
				Entry:       entry,
				OffsetHours: offset,
				SendAt:      sendAt,
			})
		}
	}
	return due
}
