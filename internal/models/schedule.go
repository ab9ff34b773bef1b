package models

import "time"

type ScheduleType string

const (
	ScheduleSingle    ScheduleType = "single"
	ScheduleRecurring ScheduleType = "recurring"
	ScheduleDeadline  ScheduleType = "deadline"
	ScheduleTimeBlock ScheduleType = "time_block"
)

// ActivitySchedule is a timing rule owned by exactly one Activity. StartAt is
// nullable only for malformed data: a schedule without a start cannot be
// projected onto the calendar. Deadline schedules never carry an EndAt.
type ActivitySchedule struct {
	ID             string            `json:"id"`
	ActivityID     string            `json:"activity_id"`
	ScheduleType   ScheduleType      `json:"schedule_type"`
	StartAt        *time.Time        `json:"start_at,omitempty"`
	EndAt          *time.Time        `json:"end_at,omitempty"`
	RecurrenceRule string            `json:"recurrence_rule,omitempty"`
	Timezone       string            `json:"timezone"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Location resolves the schedule's timezone, falling back to UTC when the
// name is empty or unknown.
func (s ActivitySchedule) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ScheduleInstance is one concrete occurrence computed from a schedule. It is
// ephemeral: produced fresh on every read and never persisted.
type ScheduleInstance struct {
	ActivityID string     `json:"activity_id"`
	ScheduleID string     `json:"schedule_id"`
	StartAt    time.Time  `json:"start_at"`
	EndAt      *time.Time `json:"end_at,omitempty"`
	LocalDate  string     `json:"local_date"` // YYYY-MM-DD in the schedule's timezone
	Timezone   string     `json:"timezone"`
}
