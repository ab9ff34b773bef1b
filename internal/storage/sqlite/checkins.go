package sqlite

import (
	"github.com/hearth-planner/hearth/internal/models"
)

func (s *Store) GetCheckinsForRange(ownerID, activityID, startDate, endDate string) ([]models.CheckinRecord, error) {
	query := `
		SELECT id, owner_id, activity_id, local_date, status, created_at
		FROM checkins
		WHERE owner_id = ? AND local_date >= ? AND local_date <= ?`
	args := []interface{}{ownerID, startDate, endDate}
	if activityID != "" {
		query += " AND activity_id = ?"
		args = append(args, activityID)
	}
	query += " ORDER BY local_date, activity_id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CheckinRecord
	for rows.Next() {
		var rec models.CheckinRecord
		var status, createdAt string
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.ActivityID, &rec.LocalDate, &status, &createdAt); err != nil {
			return nil, err
		}
		rec.Status = models.CheckinStatus(status)
		if rec.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) AddCheckin(rec models.CheckinRecord) error {
	// One check-in per (owner, activity, local date); a later check-in for
	// the same occurrence replaces the earlier status.
	_, err := s.db.Exec(`
		INSERT INTO checkins (id, owner_id, activity_id, local_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, activity_id, local_date)
		DO UPDATE SET status = excluded.status, created_at = excluded.created_at`,
		rec.ID, rec.OwnerID, rec.ActivityID, rec.LocalDate, string(rec.Status),
		timeString(rec.CreatedAt))
	return err
}
