package instances

import (
	"time"

	"github.com/hearth-planner/hearth/internal/constants"
	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/recurrence"
)

// Service turns activity schedules into concrete, ephemeral occurrences for a
// query range. It never touches storage and never reads the clock: all timing
// comes in through the schedule and the caller-supplied range.
type Service struct{}

func New() *Service {
	return &Service{}
}

// GenerateInstances dispatches on the schedule type and returns every
// occurrence whose timing overlaps [rangeStart, rangeEnd]. A schedule without
// a start instant has nothing to anchor an occurrence to and yields an empty
// list rather than an error.
func (s *Service) GenerateInstances(schedule models.ActivitySchedule, activityID string, rangeStart, rangeEnd time.Time) []models.ScheduleInstance {
	if schedule.StartAt == nil {
		return nil
	}
	start := *schedule.StartAt

	switch schedule.ScheduleType {
	case models.ScheduleSingle, models.ScheduleTimeBlock:
		// Half-open overlap: the interval touches the range when it starts
		// before the range ends and ends after the range starts.
		if start.After(rangeEnd) {
			return nil
		}
		if schedule.EndAt != nil && schedule.EndAt.Before(rangeStart) {
			return nil
		}
		return []models.ScheduleInstance{s.instance(schedule, activityID, start, schedule.EndAt)}

	case models.ScheduleDeadline:
		// Deadlines are instantaneous markers with no duration.
		if start.Before(rangeStart) || start.After(rangeEnd) {
			return nil
		}
		return []models.ScheduleInstance{s.instance(schedule, activityID, start, nil)}

	case models.ScheduleRecurring:
		var occurrences []time.Time
		if schedule.RecurrenceRule != "" {
			rule := recurrence.ParseRule(schedule.RecurrenceRule)
			occurrences = recurrence.Expand(rule, start, rangeStart, rangeEnd, schedule.EndAt)
		} else {
			// No rule saved: fall back to one occurrence per day across the
			// overlap of the schedule's own interval and the query range.
			occurrences = dailySpan(start, schedule.EndAt, rangeStart, rangeEnd)
		}
		out := make([]models.ScheduleInstance, 0, len(occurrences))
		for _, occ := range occurrences {
			out = append(out, s.instance(schedule, activityID, occ, nil))
		}
		return out

	default:
		return nil
	}
}

func (s *Service) instance(schedule models.ActivitySchedule, activityID string, start time.Time, end *time.Time) models.ScheduleInstance {
	tz := schedule.Timezone
	if tz == "" {
		tz = constants.DefaultTimezone
	}
	return models.ScheduleInstance{
		ActivityID: activityID,
		ScheduleID: schedule.ID,
		StartAt:    start,
		EndAt:      end,
		LocalDate:  start.In(schedule.Location()).Format(constants.DateFormat),
		Timezone:   tz,
	}
}

func dailySpan(start time.Time, end *time.Time, rangeStart, rangeEnd time.Time) []time.Time {
	from := start
	if from.Before(rangeStart) {
		// Fast-forward in whole days so occurrences keep the schedule's
		// time of day.
		days := int(rangeStart.Sub(start).Hours() / 24)
		from = start.AddDate(0, 0, days)
		if from.Before(rangeStart) {
			from = from.AddDate(0, 0, 1)
		}
	}
	to := rangeEnd
	if end != nil && end.Before(to) {
		to = *end
	}

	var out []time.Time
	for current := from; !current.After(to); current = current.AddDate(0, 0, 1) {
		out = append(out, current)
	}
	return out
}
