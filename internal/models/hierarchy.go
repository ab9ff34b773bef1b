package models

import "time"

// The roadmap hierarchy arrives from an external source as loosely-typed
// records. These fixed-shape values are the normalized form every core
// package works with; all "maybe this field exists" handling happens at the
// storage boundary that produces them.

type Project struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Track struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
}

type Subtrack struct {
	ID      string `json:"id"`
	TrackID string `json:"track_id"`
	Title   string `json:"title"`
}

// RoadmapItem is a dated (or undated) leaf of the hierarchy. Items without a
// start date cannot be projected onto the calendar.
type RoadmapItem struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	TrackID    string     `json:"track_id,omitempty"`
	SubtrackID string     `json:"subtrack_id,omitempty"`
	Title      string     `json:"title"`
	StartAt    *time.Time `json:"start_at,omitempty"`
	EndAt      *time.Time `json:"end_at,omitempty"`
}

// Dated reports whether the item has enough timing data to be projected.
func (i RoadmapItem) Dated() bool {
	return i.StartAt != nil
}
