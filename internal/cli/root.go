package cli

import (
	"fmt"
	"time"

	"github.com/hearth-planner/hearth/internal/constants"
	"github.com/hearth-planner/hearth/internal/storage"
)

type Context struct {
	Store storage.Provider
	Owner string
}

// timestampLayouts are the formats accepted for user-supplied time flags, in
// order of preference.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	constants.DateFormat,
}

// ParseTimeFlag parses a timestamp flag value. An empty string returns nil;
// bare dates resolve to midnight UTC.
func ParseTimeFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid timestamp %q (expected YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)", s)
}

// ParseDateFlag parses a date-only flag, defaulting to today when empty.
func ParseDateFlag(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// FormatTimeRange renders a projection's start/end for display.
func FormatTimeRange(start, end *time.Time, allDay bool) string {
	if start == nil {
		return "unscheduled"
	}
	if allDay {
		return start.Format(constants.DateFormat) + " (all day)"
	}
	out := start.Format("2006-01-02 15:04")
	if end != nil {
		if end.Format(constants.DateFormat) == start.Format(constants.DateFormat) {
			out += " - " + end.Format("15:04")
		} else {
			out += " - " + end.Format("2006-01-02 15:04")
		}
	}
	return out
}
