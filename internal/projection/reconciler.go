package projection

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/storage"
)

// Reconciler keeps the persisted calendar projection of an activity in step
// with its source records. Every write path goes through a lookup before an
// insert, so repeated projection attempts update the one existing row instead
// of duplicating it.
type Reconciler struct {
	store storage.ProjectionStore
	clock func() time.Time
}

func New(store storage.ProjectionStore) *Reconciler {
	return &Reconciler{store: store, clock: time.Now}
}

// WithClock replaces the timestamp source. Tests use it to keep written rows
// deterministic.
func (r *Reconciler) WithClock(clock func() time.Time) *Reconciler {
	r.clock = clock
	return r
}

// ProjectOne projects a single schedule of an activity onto the calendar and
// returns the projection id. A schedule without a start instant cannot be
// projected and returns an empty id with no error.
func (r *Reconciler) ProjectOne(ownerID string, activity models.Activity, schedule models.ActivitySchedule) (string, error) {
	if schedule.StartAt == nil {
		return "", nil
	}

	now := r.clock()
	existing, err := r.store.GetActiveProjection(activity.ID, ownerID)
	switch {
	case err == nil:
		existing.Title = activity.Title
		existing.Description = activity.Description
		existing.StartAt = schedule.StartAt
		existing.EndAt = schedule.EndAt
		existing.AllDay = isAllDay(schedule)
		existing.EventType = string(activity.Type)
		existing.UpdatedAt = now
		if err := r.store.UpdateProjection(existing); err != nil {
			return "", fmt.Errorf("failed to update projection: %w", err)
		}
		return existing.ID, nil

	case errors.Is(err, storage.ErrNotFound):
		row := models.Projection{
			ID:          uuid.NewString(),
			OwnerID:     ownerID,
			ActivityID:  activity.ID,
			Title:       activity.Title,
			Description: activity.Description,
			StartAt:     schedule.StartAt,
			EndAt:       schedule.EndAt,
			AllDay:      isAllDay(schedule),
			EventType:   string(activity.Type),
			State:       models.ProjectionActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.store.AddProjection(row); err != nil {
			return "", fmt.Errorf("failed to insert projection: %w", err)
		}
		return row.ID, nil

	default:
		return "", fmt.Errorf("failed to look up projection: %w", err)
	}
}

// ProjectMany projects each of an activity's schedules in turn. Recurring
// schedules contribute only their first occurrence; the read path expands the
// full series on demand, so nothing else needs a persisted row. Returns the
// ids of the projections touched.
func (r *Reconciler) ProjectMany(ownerID string, activity models.Activity, schedules []models.ActivitySchedule) ([]string, error) {
	var ids []string
	for _, schedule := range schedules {
		id, err := r.ProjectOne(ownerID, activity, schedule)
		if err != nil {
			return ids, err
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ProjectItem projects an externally-sourced roadmap item, keyed by its
// source entity id. Shares the lookup-before-insert discipline with
// ProjectOne so both write paths cannot duplicate a row for the same logical
// item. Undated items return an empty id.
func (r *Reconciler) ProjectItem(ownerID string, item models.RoadmapItem) (string, error) {
	if !item.Dated() {
		return "", nil
	}

	now := r.clock()
	existing, err := r.store.GetProjectionBySource(ownerID, item.ID)
	switch {
	case err == nil:
		existing.Title = item.Title
		existing.StartAt = item.StartAt
		existing.EndAt = item.EndAt
		existing.UpdatedAt = now
		if err := r.store.UpdateProjection(existing); err != nil {
			return "", fmt.Errorf("failed to update item projection: %w", err)
		}
		return existing.ID, nil

	case errors.Is(err, storage.ErrNotFound):
		row := models.Projection{
			ID:             uuid.NewString(),
			OwnerID:        ownerID,
			SourceEntityID: item.ID,
			Title:          item.Title,
			StartAt:        item.StartAt,
			EndAt:          item.EndAt,
			AllDay:         item.EndAt == nil,
			EventType:      string(models.ActivityEvent),
			State:          models.ProjectionActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := r.store.AddProjection(row); err != nil {
			return "", fmt.Errorf("failed to insert item projection: %w", err)
		}
		return row.ID, nil

	default:
		return "", fmt.Errorf("failed to look up item projection: %w", err)
	}
}

// HideAll transitions every active projection of an activity to hidden.
// Called when the source activity is archived; history is preserved and the
// transition is reversible.
func (r *Reconciler) HideAll(ownerID, activityID string) error {
	return r.transitionAll(ownerID, activityID, models.ProjectionHidden, func(state models.ProjectionState) bool {
		return state == models.ProjectionActive
	})
}

// RestoreAll transitions hidden and removed projections of an activity back
// to active.
func (r *Reconciler) RestoreAll(ownerID, activityID string) error {
	return r.transitionAll(ownerID, activityID, models.ProjectionActive, func(state models.ProjectionState) bool {
		return state == models.ProjectionHidden || state == models.ProjectionRemoved
	})
}

func (r *Reconciler) transitionAll(ownerID, activityID string, to models.ProjectionState, eligible func(models.ProjectionState) bool) error {
	rows, err := r.store.GetProjectionsForActivity(ownerID, activityID)
	if err != nil {
		return fmt.Errorf("failed to list projections: %w", err)
	}

	now := r.clock()
	for _, row := range rows {
		if !eligible(row.State) {
			continue
		}
		row.State = to
		row.UpdatedAt = now
		if err := r.store.UpdateProjection(row); err != nil {
			return fmt.Errorf("failed to transition projection %s: %w", row.ID, err)
		}
	}
	return nil
}

func isAllDay(schedule models.ActivitySchedule) bool {
	if schedule.ScheduleType == models.ScheduleDeadline {
		return true
	}
	start := *schedule.StartAt
	return start.Hour() == 0 && start.Minute() == 0 && schedule.EndAt == nil
}
