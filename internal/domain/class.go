package domain

import (
	"time"
)

// DateKeyLayout is the calendar-date form used in class IDs and logs.
const DateKeyLayout = "2006-01-02"

// ClassEntry is one class parsed from the schedule document.
type ClassEntry struct {
	Title   string
	Series  string
	Date    time.Time // midnight in the studio timezone
	StartAt time.Time // timezone-aware class start

	Description string
	Affirmation string
	KeyActions  string
	ClassFocus  string
	Categories  string
}

// ID identifies a class for sent-log bookkeeping. Two classes collide only
// when they share both date and title.
func (c ClassEntry) ID() string {
	return DateKey(c.Date) + "::" + c.Title
}

func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(DateKeyLayout, key)
}
