package recurrence

import (
	"strconv"
	"strings"
	"time"
)

type Frequency string

const (
	FreqDaily   Frequency = "DAILY"
	FreqWeekly  Frequency = "WEEKLY"
	FreqMonthly Frequency = "MONTHLY"
)

// Rule is the parsed form of the supported recurrence grammar:
// FREQ=DAILY|WEEKLY|MONTHLY with optional INTERVAL=n and COUNT=n.
type Rule struct {
	Freq     Frequency
	Interval int
	Count    int // 0 means unbounded
}

// ParseRule parses a semicolon-separated rule string. An unknown or missing
// FREQ falls back to daily rather than failing: a rule the user managed to
// save should still produce occurrences.
func ParseRule(text string) Rule {
	rule := Rule{Freq: FreqDaily, Interval: 1}

	for _, part := range strings.Split(text, ";") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(kv[0]))
		val := strings.ToUpper(strings.TrimSpace(kv[1]))

		switch key {
		case "FREQ":
			switch Frequency(val) {
			case FreqDaily, FreqWeekly, FreqMonthly:
				rule.Freq = Frequency(val)
			default:
				rule.Freq = FreqDaily
			}
		case "INTERVAL":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				rule.Interval = n
			}
		case "COUNT":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				rule.Count = n
			}
		}
	}

	return rule
}

// Expand walks forward from start in steps of the rule's frequency and
// interval, returning every occurrence that falls within
// [rangeStart, rangeEnd]. COUNT bounds the total number of occurrences from
// start, not the number emitted; until (when non-nil) caps the walk. Pure:
// no clock reads, same inputs always produce the same list.
func Expand(rule Rule, start, rangeStart, rangeEnd time.Time, until *time.Time) []time.Time {
	if rule.Interval < 1 {
		rule.Interval = 1
	}

	var out []time.Time
	current := start
	for n := 0; ; n++ {
		if rule.Count > 0 && n >= rule.Count {
			break
		}
		if until != nil && current.After(*until) {
			break
		}
		if current.After(rangeEnd) {
			break
		}
		if !current.Before(rangeStart) {
			out = append(out, current)
		}
		current = step(rule, current)
	}

	return out
}

func step(rule Rule, t time.Time) time.Time {
	switch rule.Freq {
	case FreqWeekly:
		return t.AddDate(0, 0, 7*rule.Interval)
	case FreqMonthly:
		return t.AddDate(0, rule.Interval, 0)
	default:
		return t.AddDate(0, 0, rule.Interval)
	}
}
