package projection

import (
	"errors"
	"testing"
	"time"

	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/storage"
)

type fakeProjectionStore struct {
	rows    map[string]models.Projection
	failAdd bool
}

func newFakeProjectionStore() *fakeProjectionStore {
	return &fakeProjectionStore{rows: make(map[string]models.Projection)}
}

func (f *fakeProjectionStore) GetActiveProjection(activityID, ownerID string) (models.Projection, error) {
	for _, row := range f.rows {
		if row.ActivityID == activityID && row.OwnerID == ownerID && row.State == models.ProjectionActive {
			return row, nil
		}
	}
	return models.Projection{}, storage.ErrNotFound
}

func (f *fakeProjectionStore) GetProjectionBySource(ownerID, sourceEntityID string) (models.Projection, error) {
	for _, row := range f.rows {
		if row.SourceEntityID == sourceEntityID && row.OwnerID == ownerID {
			return row, nil
		}
	}
	return models.Projection{}, storage.ErrNotFound
}

func (f *fakeProjectionStore) GetProjectionsForActivity(ownerID, activityID string) ([]models.Projection, error) {
	var out []models.Projection
	for _, row := range f.rows {
		if row.ActivityID == activityID && row.OwnerID == ownerID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeProjectionStore) GetActiveProjectionsInRange(ownerID string, rangeStart, rangeEnd time.Time) ([]models.Projection, error) {
	var out []models.Projection
	for _, row := range f.rows {
		if row.OwnerID != ownerID || row.State != models.ProjectionActive || row.StartAt == nil {
			continue
		}
		if row.StartAt.After(rangeEnd) {
			continue
		}
		if row.EndAt != nil && row.EndAt.Before(rangeStart) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeProjectionStore) AddProjection(row models.Projection) error {
	if f.failAdd {
		return errors.New("insert rejected")
	}
	f.rows[row.ID] = row
	return nil
}

func (f *fakeProjectionStore) UpdateProjection(row models.Projection) error {
	if _, ok := f.rows[row.ID]; !ok {
		return storage.ErrNotFound
	}
	f.rows[row.ID] = row
	return nil
}

func (f *fakeProjectionStore) DeleteProjection(id string) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeProjectionStore) activeCount() int {
	n := 0
	for _, row := range f.rows {
		if row.State == models.ProjectionActive {
			n++
		}
	}
	return n
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func testActivity() models.Activity {
	return models.Activity{
		ID:      "act-1",
		Type:    models.ActivityHabit,
		Title:   "Morning run",
		OwnerID: "owner-1",
		Status:  models.StatusActive,
	}
}

func testSchedule() models.ActivitySchedule {
	return models.ActivitySchedule{
		ID:           "sched-1",
		ActivityID:   "act-1",
		ScheduleType: models.ScheduleSingle,
		StartAt:      ptr(time.Date(2024, 6, 3, 7, 0, 0, 0, time.UTC)),
	}
}

func TestProjectOne_Idempotent(t *testing.T) {
	store := newFakeProjectionStore()
	rec := New(store).WithClock(fixedClock)

	first, err := rec.ProjectOne("owner-1", testActivity(), testSchedule())
	if err != nil {
		t.Fatalf("First projection failed: %v", err)
	}
	if first == "" {
		t.Fatal("Expected a projection id")
	}

	second, err := rec.ProjectOne("owner-1", testActivity(), testSchedule())
	if err != nil {
		t.Fatalf("Second projection failed: %v", err)
	}
	if second != first {
		t.Errorf("Expected second call to reuse projection %s, got %s", first, second)
	}
	if store.activeCount() != 1 {
		t.Errorf("Expected exactly 1 active projection, got %d", store.activeCount())
	}
}

func TestProjectOne_UpdatesInPlace(t *testing.T) {
	store := newFakeProjectionStore()
	rec := New(store).WithClock(fixedClock)

	id, err := rec.ProjectOne("owner-1", testActivity(), testSchedule())
	if err != nil {
		t.Fatalf("Projection failed: %v", err)
	}

	renamed := testActivity()
	renamed.Title = "Evening run"
	if _, err := rec.ProjectOne("owner-1", renamed, testSchedule()); err != nil {
		t.Fatalf("Reprojection failed: %v", err)
	}

	if store.rows[id].Title != "Evening run" {
		t.Errorf("Expected title updated in place, got %q", store.rows[id].Title)
	}
}

func TestProjectOne_NilStartIsNoOp(t *testing.T) {
	store := newFakeProjectionStore()
	rec := New(store).WithClock(fixedClock)

	schedule := testSchedule()
	schedule.StartAt = nil
	id, err := rec.ProjectOne("owner-1", testActivity(), schedule)
	if err != nil {
		t.Fatalf("Expected no error for unprojectable schedule, got %v", err)
	}
	if id != "" {
		t.Errorf("Expected empty id for unprojectable schedule, got %s", id)
	}
	if len(store.rows) != 0 {
		t.Errorf("Expected no rows written, got %d", len(store.rows))
	}
}

func TestProjectOne_InsertFailureSurfaced(t *testing.T) {
	store := newFakeProjectionStore()
	store.failAdd = true
	rec := New(store).WithClock(fixedClock)

	if _, err := rec.ProjectOne("owner-1", testActivity(), testSchedule()); err == nil {
		t.Error("Expected persistence failure to be surfaced")
	}
}

func TestHideAllRestoreAll_RoundTrip(t *testing.T) {
	store := newFakeProjectionStore()
	rec := New(store).WithClock(fixedClock)

	id, err := rec.ProjectOne("owner-1", testActivity(), testSchedule())
	if err != nil {
		t.Fatalf("Projection failed: %v", err)
	}

	if err := rec.HideAll("owner-1", "act-1"); err != nil {
		t.Fatalf("HideAll failed: %v", err)
	}
	if store.rows[id].State != models.ProjectionHidden {
		t.Errorf("Expected projection hidden, got %s", store.rows[id].State)
	}

	if err := rec.RestoreAll("owner-1", "act-1"); err != nil {
		t.Fatalf("RestoreAll failed: %v", err)
	}
	if store.rows[id].State != models.ProjectionActive {
		t.Errorf("Expected projection restored to active, got %s", store.rows[id].State)
	}
	if len(store.rows) != 1 {
		t.Errorf("Expected round trip to preserve the row set, got %d rows", len(store.rows))
	}
}

func TestProjectItem_SharedIdempotenceKey(t *testing.T) {
	store := newFakeProjectionStore()
	rec := New(store).WithClock(fixedClock)

	item := models.RoadmapItem{
		ID:        "item-1",
		ProjectID: "proj-1",
		Title:     "Ship kitchen remodel",
		StartAt:   ptr(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)),
	}

	first, err := rec.ProjectItem("owner-1", item)
	if err != nil {
		t.Fatalf("First item projection failed: %v", err)
	}
	second, err := rec.ProjectItem("owner-1", item)
	if err != nil {
		t.Fatalf("Second item projection failed: %v", err)
	}
	if first != second {
		t.Errorf("Expected source-entity lookup to dedupe, got %s then %s", first, second)
	}
	if len(store.rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(store.rows))
	}
}

func TestProjectItem_UndatedSkipped(t *testing.T) {
	store := newFakeProjectionStore()
	rec := New(store).WithClock(fixedClock)

	id, err := rec.ProjectItem("owner-1", models.RoadmapItem{ID: "item-2", Title: "Someday"})
	if err != nil {
		t.Fatalf("Expected no error for undated item, got %v", err)
	}
	if id != "" || len(store.rows) != 0 {
		t.Error("Expected undated item to be skipped without writes")
	}
}
