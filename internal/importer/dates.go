package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnparsableDate is returned when none of the accepted date layouts match.
var ErrUnparsableDate = errors.New("unparsable draw date")

// numericLayouts are tried in order. Day-first layouts come before
// year-first ones because Portuguese sources publish day-first.
var numericLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"2006/01/02",
}

// portugueseMonths maps lowercased month names to their numbers. Both the
// accented and plain spellings of marco appear in the wild.
var portugueseMonths = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"março":     time.March,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

// ParseDrawDate parses a draw date in any of the accepted formats: the four
// numeric layouts or the long Portuguese form "2 de janeiro de 2026". The
// result is normalized to midnight UTC.
func ParseDrawDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrUnparsableDate)
	}

	for _, layout := range numericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return midnightUTC(t), nil
		}
	}

	if t, ok := parsePortugueseLong(s); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableDate, raw)
}

// parsePortugueseLong handles "D de MONTH de YYYY", optionally prefixed with
// a weekday and comma ("Sexta-feira, 2 de janeiro de 2026").
func parsePortugueseLong(s string) (time.Time, bool) {
	if i := strings.Index(s, ","); i >= 0 {
		s = s[i+1:]
	}
	fields := strings.Fields(strings.ToLower(s))
	// D de MONTH de YYYY
	if len(fields) != 5 || fields[1] != "de" || fields[3] != "de" {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	month, ok := portugueseMonths[fields[2]]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(fields[4])
	if err != nil || year < 1900 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
