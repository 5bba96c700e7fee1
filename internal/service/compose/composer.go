// Package compose renders reminder messages: a copy-pastable WhatsApp block
// wrapped in a short email body.
package compose

import (
	"fmt"
	"strings"
	"time"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

const (
	blockOpenMarker  = "—— WhatsApp message ———"
	blockCloseMarker = "—— end message ———"

	dateLayout = "January 02, 2006"
	timeLayout = "3:04 PM MST"
)

// Message is one rendered reminder. Body wraps Block between the message
// markers for email delivery; Block alone goes out on chat channels.
type Message struct {
	Subject string
	Body    string
	Block   string
}

type Composer struct {
	loc         *time.Location
	studioName  string
	calendarURL string
}

// NewComposer renders in the studio timezone. studioName personalizes the
// intro line; calendarURL is the join-link fallback.
func NewComposer(loc *time.Location, studioName, calendarURL string) *Composer {
	return &Composer{loc: loc, studioName: studioName, calendarURL: calendarURL}
}

// Compose renders the reminder. Identical inputs produce identical bytes.
func (c *Composer) Compose(rem domain.DueReminder, joinURL string) Message {
	localStart := rem.Entry.StartAt.In(c.loc)
	dateStr := localStart.Format(dateLayout)
	timeStr := localStart.Format(timeLayout)

	subject := fmt.Sprintf("WhatsApp reminder (T-%dh): %s on %s", rem.OffsetHours, rem.Entry.Title, dateStr)

	name := c.studioName
	if name == "" {
		name = "us"
	}

	wa := []string{
		fmt.Sprintf("✨ Join %s for class on %s at %s", name, dateStr, timeStr),
		"",
		fmt.Sprintf("*\"%s\"*", rem.Entry.Title),
		"",
	}

	sections := []struct {
		heading string
		text    string
	}{
		{heading: "*Description:*", text: rem.Entry.Description},
		{heading: "*Affirmation of the Class:*", text: rem.Entry.Affirmation},
		{heading: "*Key Actions:*", text: rem.Entry.KeyActions},
		{heading: "*Class Focus:*", text: rem.Entry.ClassFocus},
		{heading: "*Categories:*", text: rem.Entry.Categories},
	}
	for _, section := range sections {
		if section.text == "" {
			continue
		}
		wa = append(wa, section.heading, section.text, "")
	}

	link := joinURL
	if link == "" {
		link = c.calendarURL
	}
	if link != "" {
		wa = append(wa, "*Link to Join:* "+link, "")
	}
	wa = append(wa, "See you there! 💕")

	header := []string{
		fmt.Sprintf("T-%dh reminder for an upcoming class WhatsApp post.", rem.OffsetHours),
		"",
		"Copy the WhatsApp message block below into the group:",
		"",
		blockOpenMarker,
		"",
	}
	footer := []string{
		"",
		blockCloseMarker,
	}

	lines := make([]string, 0, len(header)+len(wa)+len(footer))
	lines = append(lines, header...)
	lines = append(lines, wa...)
	lines = append(lines, footer...)

	return Message{
		Subject: subject,
		Body:    strings.Join(lines, "\n"),
		Block:   strings.Join(wa, "\n"),
	}
}
