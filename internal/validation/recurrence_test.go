package validation

import (
	"testing"
	"time"

	"github.com/hearth-planner/hearth/internal/models"
)

func recurringSchedule(rule string) models.ActivitySchedule {
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	return models.ActivitySchedule{
		ID:             "s-1",
		ScheduleType:   models.ScheduleRecurring,
		StartAt:        &start,
		RecurrenceRule: rule,
	}
}

func TestRecurrenceRuleValidation(t *testing.T) {
	tests := []struct {
		name      string
		rule      string
		wantIssue bool
	}{
		{"well-formed", "FREQ=WEEKLY;INTERVAL=2;COUNT=10", false},
		{"freq only", "FREQ=DAILY", false},
		{"empty rule skipped", "", false},
		{"unknown freq tolerated", "FREQ=HOURLY", false},
		{"zero interval", "FREQ=DAILY;INTERVAL=0", true},
		{"negative count", "FREQ=DAILY;COUNT=-3", true},
		{"non-numeric interval", "FREQ=DAILY;INTERVAL=two", true},
		{"malformed part", "FREQ=DAILY;INTERVAL", true},
		{"trailing semicolon ok", "FREQ=DAILY;", false},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateSchedule(recurringSchedule(tt.rule))
			got := false
			for _, issue := range result.Issues {
				if issue.Type == IssueInvalidRecurrence {
					got = true
				}
			}
			if got != tt.wantIssue {
				t.Errorf("rule %q: invalid_recurrence_rule issue = %v, want %v (%s)",
					tt.rule, got, tt.wantIssue, result.FormatReport())
			}
		})
	}
}
