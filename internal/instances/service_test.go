package instances

import (
	"testing"
	"time"

	"github.com/hearth-planner/hearth/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func TestGenerateInstances_SingleOverlap(t *testing.T) {
	svc := New()
	schedule := models.ActivitySchedule{
		ID:           "sched-1",
		ScheduleType: models.ScheduleSingle,
		StartAt:      ptr(date("2024-03-10")),
		EndAt:        ptr(date("2024-03-12")),
	}

	// Range inside the interval: exactly one instance.
	got := svc.GenerateInstances(schedule, "act-1", date("2024-03-11"), date("2024-03-11"))
	if len(got) != 1 {
		t.Fatalf("Expected 1 instance for overlapping range, got %d", len(got))
	}
	if got[0].ActivityID != "act-1" || got[0].ScheduleID != "sched-1" {
		t.Errorf("Instance carries wrong identifiers: %+v", got[0])
	}

	// Range after the interval ends: nothing.
	got = svc.GenerateInstances(schedule, "act-1", date("2024-03-13"), date("2024-03-20"))
	if len(got) != 0 {
		t.Errorf("Expected 0 instances for disjoint range, got %d", len(got))
	}
}

func TestGenerateInstances_DeadlineHasNoEnd(t *testing.T) {
	svc := New()
	schedule := models.ActivitySchedule{
		ID:           "sched-2",
		ScheduleType: models.ScheduleDeadline,
		StartAt:      ptr(date("2024-05-01")),
	}

	got := svc.GenerateInstances(schedule, "act-2", date("2024-04-28"), date("2024-05-05"))
	if len(got) != 1 {
		t.Fatalf("Expected 1 deadline instance, got %d", len(got))
	}
	if got[0].EndAt != nil {
		t.Error("Deadline instances must not carry an end instant")
	}

	got = svc.GenerateInstances(schedule, "act-2", date("2024-05-02"), date("2024-05-31"))
	if len(got) != 0 {
		t.Errorf("Expected 0 instances when deadline falls outside range, got %d", len(got))
	}
}

func TestGenerateInstances_RecurringWithRule(t *testing.T) {
	svc := New()
	schedule := models.ActivitySchedule{
		ID:             "sched-3",
		ScheduleType:   models.ScheduleRecurring,
		StartAt:        ptr(date("2024-01-01")),
		RecurrenceRule: "FREQ=WEEKLY",
	}

	got := svc.GenerateInstances(schedule, "act-3", date("2024-01-01"), date("2024-01-21"))
	if len(got) != 4 {
		t.Fatalf("Expected 4 weekly instances, got %d", len(got))
	}
	if got[1].LocalDate != "2024-01-08" {
		t.Errorf("Expected local date 2024-01-08, got %s", got[1].LocalDate)
	}
}

func TestGenerateInstances_RecurringWithoutRuleFallsBackDaily(t *testing.T) {
	svc := New()
	schedule := models.ActivitySchedule{
		ID:           "sched-4",
		ScheduleType: models.ScheduleRecurring,
		StartAt:      ptr(date("2024-01-01")),
		EndAt:        ptr(date("2024-01-03")),
	}

	got := svc.GenerateInstances(schedule, "act-4", date("2024-01-01"), date("2024-01-31"))
	if len(got) != 3 {
		t.Fatalf("Expected 3 daily fallback instances within schedule interval, got %d", len(got))
	}
}

func TestGenerateInstances_NilStartYieldsNothing(t *testing.T) {
	svc := New()
	schedule := models.ActivitySchedule{
		ID:           "sched-5",
		ScheduleType: models.ScheduleSingle,
	}

	got := svc.GenerateInstances(schedule, "act-5", date("2024-01-01"), date("2024-12-31"))
	if got != nil {
		t.Errorf("Expected nil for schedule without start, got %d instances", len(got))
	}
}

func TestGenerateInstances_LocalDateUsesScheduleTimezone(t *testing.T) {
	svc := New()
	// 02:00 UTC on March 10 is still March 9 in Los Angeles.
	start := time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)
	schedule := models.ActivitySchedule{
		ID:           "sched-6",
		ScheduleType: models.ScheduleSingle,
		StartAt:      &start,
		Timezone:     "America/Los_Angeles",
	}

	got := svc.GenerateInstances(schedule, "act-6", date("2024-03-01"), date("2024-03-31"))
	if len(got) != 1 {
		t.Fatalf("Expected 1 instance, got %d", len(got))
	}
	if got[0].LocalDate != "2024-03-09" {
		t.Errorf("Expected local date 2024-03-09, got %s", got[0].LocalDate)
	}
	if got[0].Timezone != "America/Los_Angeles" {
		t.Errorf("Expected schedule timezone on instance, got %s", got[0].Timezone)
	}
}

func TestGenerateInstances_Deterministic(t *testing.T) {
	svc := New()
	schedule := models.ActivitySchedule{
		ID:             "sched-7",
		ScheduleType:   models.ScheduleRecurring,
		StartAt:        ptr(date("2024-02-01")),
		RecurrenceRule: "FREQ=DAILY;INTERVAL=3",
	}

	first := svc.GenerateInstances(schedule, "act-7", date("2024-02-01"), date("2024-03-01"))
	second := svc.GenerateInstances(schedule, "act-7", date("2024-02-01"), date("2024-03-01"))
	if len(first) != len(second) {
		t.Fatalf("Expected identical lists, got lengths %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Instance %d differs between calls", i)
		}
	}
}
