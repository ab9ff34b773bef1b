package models

import "time"

type ProjectionState string

const (
	ProjectionActive  ProjectionState = "active"
	ProjectionHidden  ProjectionState = "hidden"
	ProjectionRemoved ProjectionState = "removed"
)

// Projection is the single persisted calendar-visible row derived from an
// Activity (or an externally-sourced roadmap item). At most one active
// projection may exist per (activity, owner) pair; the reconcilers enforce
// this with a lookup before every insert.
type Projection struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	ActivityID     string          `json:"activity_id,omitempty"`
	SourceEntityID string          `json:"source_entity_id,omitempty"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	StartAt        *time.Time      `json:"start_at,omitempty"`
	EndAt          *time.Time      `json:"end_at,omitempty"`
	AllDay         bool            `json:"all_day"`
	EventType      string          `json:"event_type"`
	State          ProjectionState `json:"state"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
