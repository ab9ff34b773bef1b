package postgres

import (
	"github.com/hearth-planner/hearth/internal/models"
)

func (s *Store) GetSyncEntries(ownerID string) ([]models.SyncEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, project_id, track_id, subtrack_id, item_id, created_at
		FROM sync_entries WHERE owner_id = $1
		ORDER BY project_id, track_id, subtrack_id, item_id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SyncEntry
	for rows.Next() {
		var e models.SyncEntry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.ProjectID, &e.TrackID, &e.SubtrackID, &e.ItemID, &e.CreatedAt); err != nil {
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
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (owner_id, project_id, track_id, subtrack_id, item_id)
			DO NOTHING`,
			e.ID, e.OwnerID, e.ProjectID, e.TrackID, e.SubtrackID, e.ItemID, e.CreatedAt)
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
			WHERE owner_id = $1 AND project_id = $2 AND track_id = $3 AND subtrack_id = $4 AND item_id = $5`,
			ownerID, key.ProjectID, key.TrackID, key.SubtrackID, key.ItemID)
		if err != nil {
			return err
		}
	}
	return nil
}
