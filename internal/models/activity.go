package models

import "time"

type ActivityType string

const (
	ActivityHabit         ActivityType = "habit"
	ActivityGoal          ActivityType = "goal"
	ActivityTask          ActivityType = "task"
	ActivityMeeting       ActivityType = "meeting"
	ActivityMeal          ActivityType = "meal"
	ActivityReminder      ActivityType = "reminder"
	ActivityTimeBlock     ActivityType = "time_block"
	ActivityAppointment   ActivityType = "appointment"
	ActivityMilestone     ActivityType = "milestone"
	ActivityTravelSegment ActivityType = "travel_segment"
	ActivityEvent         ActivityType = "event"
)

type ActivityStatus string

const (
	StatusActive    ActivityStatus = "active"
	StatusCompleted ActivityStatus = "completed"
	StatusArchived  ActivityStatus = "archived"
	StatusInactive  ActivityStatus = "inactive"
)

// Activity is the canonical record of a thing that can occur. Activities are
// never physically deleted; archiving sets ArchivedAt and flips Status.
type Activity struct {
	ID          string            `json:"id"`
	Type        ActivityType      `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	OwnerID     string            `json:"owner_id"`
	Status      ActivityStatus    `json:"status"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ArchivedAt  *time.Time        `json:"archived_at,omitempty"`
}

// SetStatus applies a status transition, keeping ArchivedAt in sync:
// moving to archived stamps it, any other status clears it.
func (a *Activity) SetStatus(status ActivityStatus, now time.Time) {
	a.Status = status
	if status == StatusArchived {
		t := now
		a.ArchivedAt = &t
	} else {
		a.ArchivedAt = nil
	}
	a.UpdatedAt = now
}
