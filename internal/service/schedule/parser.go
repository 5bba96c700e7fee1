// Package schedule parses the studio's semi-structured class-plan document
// into typed class entries.
package schedule

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

const originalDateLabel = "Original Class Date:"
const classTitleLabel = "Class Title:"

// Weekday prefixes that open a new class block, matching how the plan doc is
// written (case-sensitive, no Wednesday/Friday/Sunday classes on the
// standing schedule).
var weekdayMarkers = []string{"Thursday", "Monday", "Tuesday", "Saturday"}

type Parser struct {
	loc        *time.Location
	startTimes StartTimes
}

func NewParser(loc *time.Location, startTimes StartTimes) *Parser {
	if startTimes == nil {
		startTimes = DefaultStartTimes()
	}
	return &Parser{loc: loc, startTimes: startTimes}
}

// Parse splits the document into class blocks and extracts one entry per
// block that carries a recognizable date. Blocks without a date are dropped.
// ref supplies the year for year-less dates, so the same text and ref always
// produce the same entries.
func (p *Parser) Parse(ctx context.Context, text string, ref time.Time) []domain.ClassEntry {
	var entries []domain.ClassEntry
	var block []string

	flush := func() {
		if len(block) == 0 {
			return
		}
		if entry, ok := p.parseBlock(ctx, block, ref); ok {
			entries = append(entries, entry)
		}
		block = nil
	}

	for _, line := range splitLines(text) {
		if isBlockStart(line) {
			flush()
		}
		block = append(block, line)
	}
	flush()

	return entries
}

func (p *Parser) parseBlock(ctx context.Context, block []string, ref time.Time) (domain.ClassEntry, bool) {
	day, ok := blockDate(block, ref)
	if !ok {
		slog.DebugContext(ctx, "skipping block without a recognizable date",
			slog.String("first_line", strings.TrimSpace(block[0])),
		)
		return domain.ClassEntry{}, false
	}

	heading := cleanHeading(block[0])
	series := ""
	if _, after, found := strings.Cut(heading, "—"); found {
		series = strings.TrimSpace(after)
	}

	title := series
	if title == "" {
		title = "Class"
	}
	for _, line := range block {
		if _, after, found := strings.Cut(line, classTitleLabel); found {
			if tail := strings.TrimSpace(after); tail != "" {
				title = tail
			}
			break
		}
	}

	start := p.startTimes.For(day.Weekday())
	entry := domain.ClassEntry{
		Title:   title,
		Series:  series,
		Date:    time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, p.loc),
		StartAt: time.Date(day.Year(), day.Month(), day.Day(), start.Hour, start.Minute, 0, 0, p.loc),
	}
	extractRichFields(&entry, block)

	return entry, true
}

// blockDate prefers an explicit "Original Class Date:" line anywhere in the
// block; malformed ones are skipped in favor of later label lines. The block
// heading is the fallback.
func blockDate(block []string, ref time.Time) (time.Time, bool) {
	for _, line := range block {
		if _, after, found := strings.Cut(line, originalDateLabel); found {
			if day, ok := fuzzyDate(after, ref); ok {
				return day, true
			}
		}
	}
	return fuzzyDate(block[0], ref)
}

// extractRichFields collects the labeled free-text sections. A label is a
// standalone line; its content runs from the next line until a blank line,
// another label, a section the field must not swallow, or an all-dash rule.
func extractRichFields(entry *domain.ClassEntry, block []string) {
	targets := map[string]*string{
		"description":              &entry.Description,
		"affirmation of the class": &entry.Affirmation,
		"key actions":              &entry.KeyActions,
		"class focus":              &entry.ClassFocus,
		"categories":               &entry.Categories,
	}

	n := len(block)
	for i := 0; i < n; {
		target, ok := targets[normalizeLabel(block[i])]
		if !ok {
			i++
			continue
		}

		j := i + 1
		var collected []string
		for j < n {
			line := strings.TrimSpace(block[j])
			if line == "" {
				break
			}
			if _, known := targets[normalizeLabel(block[j])]; known {
				break
			}
			if isFieldTerminator(line) {
				break
			}
			collected = append(collected, line)
			j++
		}
		if value := strings.TrimSpace(strings.Join(collected, " ")); value != "" {
			*target = value
		}
		i = j
	}
}

func isFieldTerminator(line string) bool {
	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "required item(") ||
		strings.HasPrefix(lower, "original class date:") ||
		strings.HasPrefix(lower, "instructor notes:") {
		return true
	}
	return isDashRule(line)
}

func isDashRule(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r != '-' {
			return false
		}
	}
	return true
}

// normalizeLabel reduces a potential label line to its bare lowercase form:
// "*Key Actions:*" becomes "key actions".
func normalizeLabel(line string) string {
	s := strings.TrimSpace(line)
	s = strings.Trim(s, "*")
	s = strings.TrimRight(s, ":")
	return strings.ToLower(s)
}

// cleanHeading strips markdown decoration from a block heading.
func cleanHeading(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "# ")
	return strings.Trim(s, "*")
}

func isBlockStart(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "###") {
		return true
	}
	for _, marker := range weekdayMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, isSpace)
	}
	return lines
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\v' || r == '\f'
}
