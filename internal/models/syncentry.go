package models

import "time"

// SyncEntry records one committed hierarchical selection at a given
// granularity. TrackID, SubtrackID and ItemID narrow the scope; an entry with
// all three empty syncs the whole project. Entries are uniquely keyed by
// (owner, project, track, subtrack, item) and always written via upsert.
type SyncEntry struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	ProjectID  string    `json:"project_id"`
	TrackID    string    `json:"track_id,omitempty"`
	SubtrackID string    `json:"subtrack_id,omitempty"`
	ItemID     string    `json:"item_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Key returns the composite selection key the entry was committed at.
func (e SyncEntry) Key() SyncKey {
	return SyncKey{
		ProjectID:  e.ProjectID,
		TrackID:    e.TrackID,
		SubtrackID: e.SubtrackID,
		ItemID:     e.ItemID,
	}
}

// SyncKey identifies a selection granularity independent of owner. Empty
// fields mean "not narrowed at this level".
type SyncKey struct {
	ProjectID  string
	TrackID    string
	SubtrackID string
	ItemID     string
}
