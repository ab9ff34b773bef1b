package sqlite

import (
	"github.com/hearth-planner/hearth/internal/models"
)

func (s *Store) GetSyncEntries(ownerID string) ([]models.SyncEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, project_id, track_id, subtrack_id, item_id, created_at
		FROM sync_entries WHERE owner_id = ?
		ORDER BY project_id, track_id, subtrack_id, item_id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SyncEntry
	for rows.Next() {
		var e models.SyncEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.ProjectID, &e.TrackID, &e.SubtrackID, &e.ItemID, &createdAt); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpsertSyncEntries(entries []models.SyncEntry) error {
	for _, e := range entries {
		_, err := s.db.Exec(`
			INSERT INTO sync_entries (id, owner_id, project_id, track_id, subtrack_id, item_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(owner_id, project_id, track_id, subtrack_id, item_id)
			DO NOTHING`,
			e.ID, e.OwnerID, e.ProjectID, e.TrackID, e.SubtrackID, e.ItemID,
			timeString(e.CreatedAt))
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeleteSyncEntries(ownerID string, keys []models.SyncKey) error {
	for _, key := range keys {
		_, err := s.db.Exec(`
			DELETE FROM sync_entries
			WHERE owner_id = ? AND project_id = ? AND track_id = ? AND subtrack_id = ? AND item_id = ?`,
			ownerID, key.ProjectID, key.TrackID, key.SubtrackID, key.ItemID)
		if err != nil {
			return err
		}
	}
	return nil
}
