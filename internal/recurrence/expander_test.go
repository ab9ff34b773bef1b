package recurrence

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseRule_Defaults(t *testing.T) {
	rule := ParseRule("")
	if rule.Freq != FreqDaily {
		t.Errorf("Expected missing FREQ to fall back to daily, got %s", rule.Freq)
	}
	if rule.Interval != 1 {
		t.Errorf("Expected default interval 1, got %d", rule.Interval)
	}
	if rule.Count != 0 {
		t.Errorf("Expected unbounded count, got %d", rule.Count)
	}
}

func TestParseRule_UnknownFreqFallsBackToDaily(t *testing.T) {
	rule := ParseRule("FREQ=HOURLY;INTERVAL=4")
	if rule.Freq != FreqDaily {
		t.Errorf("Expected unknown FREQ to fall back to daily, got %s", rule.Freq)
	}
	if rule.Interval != 4 {
		t.Errorf("Expected interval 4, got %d", rule.Interval)
	}
}

func TestParseRule_FullRule(t *testing.T) {
	rule := ParseRule("freq=weekly;interval=2;count=10")
	if rule.Freq != FreqWeekly {
		t.Errorf("Expected weekly, got %s", rule.Freq)
	}
	if rule.Interval != 2 {
		t.Errorf("Expected interval 2, got %d", rule.Interval)
	}
	if rule.Count != 10 {
		t.Errorf("Expected count 10, got %d", rule.Count)
	}
}

func TestExpand_CountBoundsOccurrences(t *testing.T) {
	rule := ParseRule("FREQ=DAILY;INTERVAL=2;COUNT=3")
	got := Expand(rule, date("2024-01-01"), date("2024-01-01"), date("2024-12-31"), nil)

	want := []time.Time{date("2024-01-01"), date("2024-01-03"), date("2024-01-05")}
	if len(got) != len(want) {
		t.Fatalf("Expected %d occurrences, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("Occurrence %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestExpand_CountAppliesFromStartNotRange(t *testing.T) {
	// A COUNT=3 rule queried after its last occurrence must emit nothing.
	rule := ParseRule("FREQ=DAILY;COUNT=3")
	got := Expand(rule, date("2024-01-01"), date("2024-02-01"), date("2024-02-28"), nil)
	if len(got) != 0 {
		t.Errorf("Expected no occurrences after COUNT exhausted, got %d", len(got))
	}
}

func TestExpand_RangeWindow(t *testing.T) {
	rule := ParseRule("FREQ=DAILY")
	got := Expand(rule, date("2024-01-01"), date("2024-01-10"), date("2024-01-12"), nil)
	if len(got) != 3 {
		t.Fatalf("Expected 3 occurrences in window, got %d", len(got))
	}
	if !got[0].Equal(date("2024-01-10")) || !got[2].Equal(date("2024-01-12")) {
		t.Errorf("Unexpected window bounds: %v .. %v", got[0], got[len(got)-1])
	}
}

func TestExpand_UntilCapsWalk(t *testing.T) {
	rule := ParseRule("FREQ=WEEKLY")
	until := date("2024-01-15")
	got := Expand(rule, date("2024-01-01"), date("2024-01-01"), date("2024-12-31"), &until)
	if len(got) != 3 {
		t.Fatalf("Expected 3 weekly occurrences up to until, got %d", len(got))
	}
	if !got[2].Equal(date("2024-01-15")) {
		t.Errorf("Expected final occurrence on the until instant, got %s", got[2])
	}
}

func TestExpand_MonthlyStepping(t *testing.T) {
	rule := ParseRule("FREQ=MONTHLY;INTERVAL=3")
	got := Expand(rule, date("2024-01-15"), date("2024-01-01"), date("2024-12-31"), nil)
	want := []time.Time{date("2024-01-15"), date("2024-04-15"), date("2024-07-15"), date("2024-10-15")}
	if len(got) != len(want) {
		t.Fatalf("Expected %d occurrences, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("Occurrence %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestExpand_Deterministic(t *testing.T) {
	rule := ParseRule("FREQ=WEEKLY;INTERVAL=2")
	first := Expand(rule, date("2024-03-01"), date("2024-03-01"), date("2024-06-01"), nil)
	second := Expand(rule, date("2024-03-01"), date("2024-03-01"), date("2024-06-01"), nil)
	if len(first) != len(second) {
		t.Fatalf("Expected identical lists, got lengths %d and %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("Occurrence %d differs between calls", i)
		}
	}
}
