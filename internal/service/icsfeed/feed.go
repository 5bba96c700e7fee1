// Package icsfeed renders parsed class entries as an iCalendar feed.
package icsfeed

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

// DefaultEventDuration is used when no class length is configured.
const DefaultEventDuration = 75 * time.Minute

// Build renders one VEVENT per entry. UIDs reuse the entry id so repeated
// exports stay stable for calendar clients.
func Build(entries []domain.ClassEntry, studioName string, defaultDuration time.Duration) *ical.Calendar {
	if defaultDuration <= 0 {
		defaultDuration = DefaultEventDuration
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//studio-announce//class feed//EN")
	if studioName != "" {
		cal.SetXWRCalName(studioName + " Classes")
	}

	stamp := time.Now().UTC()
	for _, entry := range entries {
		event := cal.AddEvent(fmt.Sprintf("%s@studio-announce", entry.ID()))
		event.SetDtStampTime(stamp)
		event.SetStartAt(entry.StartAt)
		event.SetEndAt(entry.StartAt.Add(defaultDuration))
		event.SetSummary(entry.Title)
		if entry.Description != "" {
			event.SetDescription(entry.Description)
		}
		if entry.Categories != "" {
			event.SetProperty(ical.ComponentPropertyCategories, entry.Categories)
		}
	}

	return cal
}
