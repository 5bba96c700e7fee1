package schedule

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// months maps lowercase month tokens to calendar months. "sept" shows up in
// real plan docs alongside the standard three-letter forms.
var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// fuzzyDate extracts a calendar date from free-form text such as
// "### Thursday, Jan 15 — Expanding Potential". Clean full dates go through
// dateparse; decorated or year-less forms fall back to a token scan that
// borrows the year from ref. The result is a date carrier at midnight UTC.
func fuzzyDate(text string, ref time.Time) (time.Time, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, false
	}

	if parsed, err := dateparse.ParseIn(trimmed, time.UTC); err == nil && plausibleYear(parsed.Year()) {
		return midnight(parsed.Year(), parsed.Month(), parsed.Day()), true
	}

	return scanDate(trimmed, ref)
}

func plausibleYear(year int) bool {
	return year >= 2000 && year <= 2100
}

func midnight(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type token struct {
	text    string
	numeric bool
	value   int
}

func tokenize(text string) []token {
	var tokens []token
	runes := []rune(text)
	for i := 0; i < len(runes); {
		switch {
		case unicode.IsDigit(runes[i]):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			raw := string(runes[i:j])
			value, err := strconv.Atoi(raw)
			if err != nil {
				value = -1
			}
			tokens = append(tokens, token{text: raw, numeric: true, value: value})
			i = j
		case unicode.IsLetter(runes[i]):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			tokens = append(tokens, token{text: string(runes[i:j])})
			i = j
		default:
			i++
		}
	}
	return tokens
}

// scanDate finds a month name plus day (and optional 4-digit year) anywhere
// in the text, defaulting the year from ref. Without a month name it still
// recognizes an embedded year-month-day digit triplet.
func scanDate(text string, ref time.Time) (time.Time, bool) {
	tokens := tokenize(text)

	monthIdx := -1
	var month time.Month
	for i, tok := range tokens {
		if tok.numeric {
			continue
		}
		if m, ok := months[strings.ToLower(tok.text)]; ok {
			month = m
			monthIdx = i
			break
		}
	}
	if monthIdx < 0 {
		return isoTriplet(tokens)
	}

	day := 0
	for _, tok := range tokens[monthIdx+1:] {
		if isDayToken(tok) {
			day = tok.value
			break
		}
	}
	if day == 0 && monthIdx > 0 && isDayToken(tokens[monthIdx-1]) {
		day = tokens[monthIdx-1].value
	}
	if day == 0 {
		return time.Time{}, false
	}

	year := ref.Year()
	for _, tok := range tokens {
		if tok.numeric && len(tok.text) == 4 && tok.value >= 1900 && tok.value <= 2100 {
			year = tok.value
			break
		}
	}

	return validDate(year, month, day)
}

func isDayToken(tok token) bool {
	return tok.numeric && len(tok.text) <= 2 && tok.value >= 1 && tok.value <= 31
}

func isoTriplet(tokens []token) (time.Time, bool) {
	for i := 0; i+2 < len(tokens); i++ {
		y, m, d := tokens[i], tokens[i+1], tokens[i+2]
		if !y.numeric || !m.numeric || !d.numeric {
			continue
		}
		if len(y.text) != 4 || y.value < 1900 || y.value > 2100 {
			continue
		}
		if m.value < 1 || m.value > 12 || d.value < 1 || d.value > 31 {
			continue
		}
		if built, ok := validDate(y.value, time.Month(m.value), d.value); ok {
			return built, true
		}
	}
	return time.Time{}, false
}

// validDate rejects day/month combinations that time.Date would normalize
// away, such as February 30.
func validDate(year int, month time.Month, day int) (time.Time, bool) {
	built := midnight(year, month, day)
	if built.Year() != year || built.Month() != month || built.Day() != day {
		return time.Time{}, false
	}
	return built, true
}
