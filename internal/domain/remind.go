package domain

import (
	"strconv"
	"time"
)

// DueReminder pairs a class with one reminder offset whose send window is
// currently open.
type DueReminder struct {
	Entry       ClassEntry
	OffsetHours int
	SendAt      time.Time
}

// SentLog records which (class, offset) reminders have been delivered.
// Outer keys are class IDs, inner keys are offset hours in decimal, values
// are RFC 3339 delivery timestamps. Entries are only ever added.
type SentLog map[string]map[string]string

func (l SentLog) Sent(classID string, offsetHours int) bool {
	_, ok := l[classID][strconv.Itoa(offsetHours)]
	return ok
}

func (l SentLog) MarkSent(classID string, offsetHours int, at time.Time) {
	offsets, ok := l[classID]
	if !ok {
		offsets = make(map[string]string)
		l[classID] = offsets
	}
	offsets[strconv.Itoa(offsetHours)] = at.Format(time.RFC3339)
}

// Size returns the number of recorded deliveries across all classes.
func (l SentLog) Size() int {
	n := 0
	for _, offsets := range l {
		n += len(offsets)
	}
	return n
}
