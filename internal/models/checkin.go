package models

import "time"

type CheckinStatus string

const (
	CheckinDone    CheckinStatus = "done"
	CheckinMissed  CheckinStatus = "missed"
	CheckinSkipped CheckinStatus = "skipped"
	CheckinPending CheckinStatus = "pending"
)

// CheckinRecord marks the outcome of one habit occurrence on a local date.
type CheckinRecord struct {
	ID         string        `json:"id"`
	OwnerID    string        `json:"owner_id"`
	ActivityID string        `json:"activity_id"`
	LocalDate  string        `json:"local_date"` // YYYY-MM-DD
	Status     CheckinStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}
