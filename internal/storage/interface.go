package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/hearth-planner/hearth/internal/models"
)

// ErrNotFound is returned when a requested record does not exist. Store
// implementations map their driver's no-rows condition onto it so callers can
// branch without knowing the backend.
var ErrNotFound = errors.New("record not found")

// ActivityFilter narrows GetActivitiesByOwner. Zero values mean "any".
type ActivityFilter struct {
	Type   models.ActivityType
	Status models.ActivityStatus
}

type ActivityStore interface {
	GetActivity(id string) (models.Activity, error)
	GetActivitiesByOwner(ownerID string, filter ActivityFilter) ([]models.Activity, error)
	AddActivity(models.Activity) error
	UpdateActivity(models.Activity) error
}

type ScheduleStore interface {
	GetSchedulesForActivity(activityID string) ([]models.ActivitySchedule, error)
	AddSchedule(models.ActivitySchedule) error
	UpdateSchedule(models.ActivitySchedule) error
	DeleteSchedule(id string) error
}

type ProjectionStore interface {
	// GetActiveProjection returns the single active projection for an
	// activity, or ErrNotFound.
	GetActiveProjection(activityID, ownerID string) (models.Projection, error)
	// GetProjectionBySource looks a projection up by the external entity it
	// was materialized from, regardless of state, or returns ErrNotFound.
	GetProjectionBySource(ownerID, sourceEntityID string) (models.Projection, error)
	GetProjectionsForActivity(ownerID, activityID string) ([]models.Projection, error)
	// GetActiveProjectionsInRange lists the owner's active projections
	// overlapping [rangeStart, rangeEnd], ordered by start time.
	GetActiveProjectionsInRange(ownerID string, rangeStart, rangeEnd time.Time) ([]models.Projection, error)
	AddProjection(models.Projection) error
	UpdateProjection(models.Projection) error
	DeleteProjection(id string) error
}

type CheckinStore interface {
	// GetCheckinsForRange lists check-ins between startDate and endDate
	// (inclusive, YYYY-MM-DD). An empty activityID matches all activities.
	GetCheckinsForRange(ownerID, activityID, startDate, endDate string) ([]models.CheckinRecord, error)
	AddCheckin(models.CheckinRecord) error
}

type SyncEntryStore interface {
	GetSyncEntries(ownerID string) ([]models.SyncEntry, error)
	UpsertSyncEntries(entries []models.SyncEntry) error
	DeleteSyncEntries(ownerID string, keys []models.SyncKey) error
}

// HierarchySource exposes the externally-sourced roadmap tree. Rows are
// normalized into fixed-shape models at this boundary; core packages never
// see the loose upstream records.
type HierarchySource interface {
	GetProjects(ownerID string) ([]models.Project, error)
	GetTracks(projectID string) ([]models.Track, error)
	GetSubtracks(trackID string) ([]models.Subtrack, error)
	// GetItemsInScope returns every roadmap item under the given selection
	// key: a single item, a subtrack's items, a track's items, or a whole
	// project's.
	GetItemsInScope(ownerID string, scope models.SyncKey) ([]models.RoadmapItem, error)
}

// RoadmapSeeder writes imported roadmap rows. Only the import path and tests
// use it; core packages read through HierarchySource.
type RoadmapSeeder interface {
	AddRoadmapProject(ownerID string, p models.Project) error
	AddRoadmapTrack(t models.Track) error
	AddRoadmapSubtrack(st models.Subtrack) error
	AddRoadmapItem(item models.RoadmapItem) error
}

// Migrator is implemented by SQL-backed providers. The migrate and doctor
// commands assert for it rather than for a concrete store type.
type Migrator interface {
	ApplyMigrations(logFn func(string)) (int, error)
	GetDB() *sql.DB
}

// Provider is the full persistence surface a backend must implement.
type Provider interface {
	Init() error
	Load() error
	Close() error

	ActivityStore
	ScheduleStore
	ProjectionStore
	CheckinStore
	SyncEntryStore
	HierarchySource
	RoadmapSeeder

	GetConfigPath() string
}
