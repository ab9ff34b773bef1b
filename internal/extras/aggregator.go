package extras

import (
	"fmt"
	"sort"
	"time"

	"github.com/hearth-planner/hearth/internal/constants"
	"github.com/hearth-planner/hearth/internal/instances"
	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/storage"
)

// ProgressSource reports goal completion as a fraction in [0,1]. The actual
// computation lives outside this package.
type ProgressSource interface {
	ProgressFor(ownerID, activityID string) (float64, error)
}

// HabitInstance is one habit occurrence joined with its check-in status.
type HabitInstance struct {
	models.ScheduleInstance
	Title  string               `json:"title"`
	Status models.CheckinStatus `json:"status"`
}

// GoalDeadline is a deadline marker for a goal due within the query range.
type GoalDeadline struct {
	ActivityID string    `json:"activity_id"`
	Title      string    `json:"title"`
	DueAt      time.Time `json:"due_at"`
	LocalDate  string    `json:"local_date"`
	Progress   float64   `json:"progress"`
}

// Extras is the derived, never-persisted calendar overlay for a date range.
type Extras struct {
	HabitInstances []HabitInstance `json:"habit_instances"`
	GoalDeadlines  []GoalDeadline  `json:"goal_deadlines"`
}

// Aggregator composes schedule expansion with check-in and progress records
// into read-only calendar extras. Output depends only on the inputs and the
// stored records: no clock reads, no hidden ordering, so two calls with no
// intervening writes return identical results.
type Aggregator struct {
	activities storage.ActivityStore
	schedules  storage.ScheduleStore
	checkins   storage.CheckinStore
	progress   ProgressSource
	instances  *instances.Service
}

func New(activities storage.ActivityStore, schedules storage.ScheduleStore, checkins storage.CheckinStore, progress ProgressSource) *Aggregator {
	return &Aggregator{
		activities: activities,
		schedules:  schedules,
		checkins:   checkins,
		progress:   progress,
		instances:  instances.New(),
	}
}

// GetExtras computes habit instances and goal deadline markers for
// [rangeStart, rangeEnd].
func (a *Aggregator) GetExtras(ownerID string, rangeStart, rangeEnd time.Time) (Extras, error) {
	var out Extras

	habits, err := a.habitInstances(ownerID, rangeStart, rangeEnd)
	if err != nil {
		return out, err
	}
	out.HabitInstances = habits

	goals, err := a.goalDeadlines(ownerID, rangeStart, rangeEnd)
	if err != nil {
		return out, err
	}
	out.GoalDeadlines = goals

	return out, nil
}

func (a *Aggregator) habitInstances(ownerID string, rangeStart, rangeEnd time.Time) ([]HabitInstance, error) {
	habits, err := a.activities.GetActivitiesByOwner(ownerID, storage.ActivityFilter{
		Type:   models.ActivityHabit,
		Status: models.StatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	// Local dates can land a day either side of the UTC range bounds
	// depending on the schedule timezone, so the check-in query widens by one
	// day in each direction.
	startDate := rangeStart.AddDate(0, 0, -1).Format(constants.DateFormat)
	endDate := rangeEnd.AddDate(0, 0, 1).Format(constants.DateFormat)
	records, err := a.checkins.GetCheckinsForRange(ownerID, "", startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	byKey := make(map[string]models.CheckinStatus, len(records))
	for _, rec := range records {
		byKey[rec.ActivityID+"|"+rec.LocalDate] = rec.Status
	}

	var out []HabitInstance
	for _, habit := range habits {
		schedules, err := a.schedules.GetSchedulesForActivity(habit.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list schedules for %s: %w", habit.ID, err)
		}
		for _, schedule := range schedules {
			for _, inst := range a.instances.GenerateInstances(schedule, habit.ID, rangeStart, rangeEnd) {
				status, ok := byKey[inst.ActivityID+"|"+inst.LocalDate]
				if !ok {
					status = models.CheckinPending
				}
				out = append(out, HabitInstance{
					ScheduleInstance: inst,
					Title:            habit.Title,
					Status:           status,
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].StartAt.Before(out[j].StartAt)
		}
		if out[i].ActivityID != out[j].ActivityID {
			return out[i].ActivityID < out[j].ActivityID
		}
		return out[i].ScheduleID < out[j].ScheduleID
	})
	return out, nil
}

func (a *Aggregator) goalDeadlines(ownerID string, rangeStart, rangeEnd time.Time) ([]GoalDeadline, error) {
	goals, err := a.activities.GetActivitiesByOwner(ownerID, storage.ActivityFilter{
		Type:   models.ActivityGoal,
		Status: models.StatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	var out []GoalDeadline
	for _, goal := range goals {
		schedules, err := a.schedules.GetSchedulesForActivity(goal.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list schedules for %s: %w", goal.ID, err)
		}
		for _, schedule := range schedules {
			if schedule.ScheduleType != models.ScheduleDeadline {
				continue
			}
			for _, inst := range a.instances.GenerateInstances(schedule, goal.ID, rangeStart, rangeEnd) {
				progress, err := a.progress.ProgressFor(ownerID, goal.ID)
				if err != nil {
					return nil, fmt.Errorf("failed to compute progress for %s: %w", goal.ID, err)
				}
				out = append(out, GoalDeadline{
					ActivityID: goal.ID,
					Title:      goal.Title,
					DueAt:      inst.StartAt,
					LocalDate:  inst.LocalDate,
					Progress:   progress,
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueAt.Equal(out[j].DueAt) {
			return out[i].DueAt.Before(out[j].DueAt)
		}
		return out[i].ActivityID < out[j].ActivityID
	})
	return out, nil
}
