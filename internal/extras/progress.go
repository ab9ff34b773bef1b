package extras

import (
	"strconv"

	"github.com/hearth-planner/hearth/internal/storage"
)

// MetadataProgress reads goal progress from the activity's metadata
// ("progress", a 0..1 fraction). Missing or malformed values report zero
// progress rather than failing the calendar read.
type MetadataProgress struct {
	activities storage.ActivityStore
}

func NewMetadataProgress(activities storage.ActivityStore) *MetadataProgress {
	return &MetadataProgress{activities: activities}
}

func (m *MetadataProgress) ProgressFor(ownerID, activityID string) (float64, error) {
	activity, err := m.activities.GetActivity(activityID)
	if err != nil {
		return 0, err
	}
	raw, ok := activity.Metadata["progress"]
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, nil
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, nil
}
