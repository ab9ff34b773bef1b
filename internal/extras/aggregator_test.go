package extras

import (
	"reflect"
	"testing"
	"time"

	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/storage"
)

type fakeActivityStore struct {
	activities []models.Activity
}

func (f *fakeActivityStore) GetActivity(id string) (models.Activity, error) {
	for _, a := range f.activities {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Activity{}, storage.ErrNotFound
}

func (f *fakeActivityStore) GetActivitiesByOwner(ownerID string, filter storage.ActivityFilter) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range f.activities {
		if a.OwnerID != ownerID {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeActivityStore) AddActivity(models.Activity) error    { return nil }
func (f *fakeActivityStore) UpdateActivity(models.Activity) error { return nil }

type fakeScheduleStore struct {
	schedules map[string][]models.ActivitySchedule
}

func (f *fakeScheduleStore) GetSchedulesForActivity(activityID string) ([]models.ActivitySchedule, error) {
	return f.schedules[activityID], nil
}

func (f *fakeScheduleStore) AddSchedule(models.ActivitySchedule) error    { return nil }
func (f *fakeScheduleStore) UpdateSchedule(models.ActivitySchedule) error { return nil }
func (f *fakeScheduleStore) DeleteSchedule(id string) error               { return nil }

type fakeCheckinStore struct {
	records []models.CheckinRecord
}

func (f *fakeCheckinStore) GetCheckinsForRange(ownerID, activityID, startDate, endDate string) ([]models.CheckinRecord, error) {
	var out []models.CheckinRecord
	for _, rec := range f.records {
		if rec.OwnerID != ownerID {
			continue
		}
		if activityID != "" && rec.ActivityID != activityID {
			continue
		}
		if rec.LocalDate < startDate || rec.LocalDate > endDate {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeCheckinStore) AddCheckin(models.CheckinRecord) error { return nil }

type fixedProgress struct{ value float64 }

func (f fixedProgress) ProgressFor(ownerID, activityID string) (float64, error) {
	return f.value, nil
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func testAggregator() *Aggregator {
	activities := &fakeActivityStore{activities: []models.Activity{
		{ID: "habit-1", OwnerID: "owner-1", Type: models.ActivityHabit, Status: models.StatusActive, Title: "Water plants"},
		{ID: "habit-2", OwnerID: "owner-1", Type: models.ActivityHabit, Status: models.StatusArchived, Title: "Old habit"},
		{ID: "goal-1", OwnerID: "owner-1", Type: models.ActivityGoal, Status: models.StatusActive, Title: "Read 12 books"},
	}}
	schedules := &fakeScheduleStore{schedules: map[string][]models.ActivitySchedule{
		"habit-1": {{
			ID:             "sched-h1",
			ActivityID:     "habit-1",
			ScheduleType:   models.ScheduleRecurring,
			StartAt:        ptr(date("2024-06-01")),
			RecurrenceRule: "FREQ=DAILY",
		}},
		"habit-2": {{
			ID:           "sched-h2",
			ActivityID:   "habit-2",
			ScheduleType: models.ScheduleRecurring,
			StartAt:      ptr(date("2024-06-01")),
		}},
		"goal-1": {{
			ID:           "sched-g1",
			ActivityID:   "goal-1",
			ScheduleType: models.ScheduleDeadline,
			StartAt:      ptr(date("2024-06-03")),
		}},
	}}
	checkins := &fakeCheckinStore{records: []models.CheckinRecord{
		{OwnerID: "owner-1", ActivityID: "habit-1", LocalDate: "2024-06-01", Status: models.CheckinDone},
		{OwnerID: "owner-1", ActivityID: "habit-1", LocalDate: "2024-06-02", Status: models.CheckinSkipped},
	}}
	return New(activities, schedules, checkins, fixedProgress{value: 0.25})
}

func TestGetExtras_JoinsCheckins(t *testing.T) {
	agg := testAggregator()
	extras, err := agg.GetExtras("owner-1", date("2024-06-01"), date("2024-06-03"))
	if err != nil {
		t.Fatalf("GetExtras failed: %v", err)
	}

	if len(extras.HabitInstances) != 3 {
		t.Fatalf("Expected 3 habit instances, got %d", len(extras.HabitInstances))
	}
	want := []models.CheckinStatus{models.CheckinDone, models.CheckinSkipped, models.CheckinPending}
	for i, inst := range extras.HabitInstances {
		if inst.Status != want[i] {
			t.Errorf("Instance %d: expected status %s, got %s", i, want[i], inst.Status)
		}
		if inst.Title != "Water plants" {
			t.Errorf("Instance %d: expected habit title attached, got %q", i, inst.Title)
		}
	}
}

func TestGetExtras_ArchivedHabitsExcluded(t *testing.T) {
	agg := testAggregator()
	extras, err := agg.GetExtras("owner-1", date("2024-06-01"), date("2024-06-03"))
	if err != nil {
		t.Fatalf("GetExtras failed: %v", err)
	}
	for _, inst := range extras.HabitInstances {
		if inst.ActivityID == "habit-2" {
			t.Error("Archived habit must not produce instances")
		}
	}
}

func TestGetExtras_GoalDeadlineInRange(t *testing.T) {
	agg := testAggregator()

	extras, err := agg.GetExtras("owner-1", date("2024-06-01"), date("2024-06-05"))
	if err != nil {
		t.Fatalf("GetExtras failed: %v", err)
	}
	if len(extras.GoalDeadlines) != 1 {
		t.Fatalf("Expected 1 goal deadline, got %d", len(extras.GoalDeadlines))
	}
	marker := extras.GoalDeadlines[0]
	if marker.LocalDate != "2024-06-03" || marker.Progress != 0.25 {
		t.Errorf("Unexpected deadline marker: %+v", marker)
	}

	// Query past the deadline: no marker.
	extras, err = agg.GetExtras("owner-1", date("2024-06-10"), date("2024-06-20"))
	if err != nil {
		t.Fatalf("GetExtras failed: %v", err)
	}
	if len(extras.GoalDeadlines) != 0 {
		t.Errorf("Expected no deadlines outside range, got %d", len(extras.GoalDeadlines))
	}
}

func TestGetExtras_Deterministic(t *testing.T) {
	agg := testAggregator()
	first, err := agg.GetExtras("owner-1", date("2024-06-01"), date("2024-06-03"))
	if err != nil {
		t.Fatalf("GetExtras failed: %v", err)
	}
	second, err := agg.GetExtras("owner-1", date("2024-06-01"), date("2024-06-03"))
	if err != nil {
		t.Fatalf("GetExtras failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical output for identical inputs with no intervening writes")
	}
}
