package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DayTime is a wall-clock start time in the studio timezone.
type DayTime struct {
	Hour   int
	Minute int
}

// StartTimes maps weekdays to their class start times.
type StartTimes map[time.Weekday]DayTime

// DefaultStartTimes returns the studio's standing weekly schedule.
func DefaultStartTimes() StartTimes {
	return StartTimes{
		time.Monday:   {Hour: 17, Minute: 30},
		time.Tuesday:  {Hour: 8},
		time.Thursday: {Hour: 8},
		time.Saturday: {Hour: 9},
	}
}

// For returns the start time for a weekday, defaulting to 08:00 for days
// without a standing slot.
func (s StartTimes) For(day time.Weekday) DayTime {
	if t, ok := s[day]; ok {
		return t
	}
	return DayTime{Hour: 8}
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// StartTimesFromConfig overlays "HH:MM" overrides keyed by weekday name onto
// the default table.
func StartTimesFromConfig(overrides map[string]string) (StartTimes, error) {
	table := DefaultStartTimes()
	for name, value := range overrides {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q in start times", name)
		}
		parsed, err := time.Parse("15:04", strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid start time %q for %s: %w", value, name, err)
		}
		table[day] = DayTime{Hour: parsed.Hour(), Minute: parsed.Minute()}
	}
	return table, nil
}
