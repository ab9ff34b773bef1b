package postgres

import (
	"fmt"

	"github.com/hearth-planner/hearth/internal/models"
)

func (s *Store) GetCheckinsForRange(ownerID, activityID, startDate, endDate string) ([]models.CheckinRecord, error) {
	query := `
		SELECT id, owner_id, activity_id, local_date, status, created_at
		FROM checkins
		WHERE owner_id = $1 AND local_date >= $2 AND local_date <= $3`
	args := []interface{}{ownerID, startDate, endDate}
	if activityID != "" {
		args = append(args, activityID)
		query += fmt.Sprintf(" AND activity_id = $%d", len(args))
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
		var status string
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.ActivityID, &rec.LocalDate, &status, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Status = models.CheckinStatus(status)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) AddCheckin(rec models.CheckinRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO checkins (id, owner_id, activity_id, local_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, activity_id, local_date)
		DO UPDATE SET status = EXCLUDED.status, created_at = EXCLUDED.created_at`,
		rec.ID, rec.OwnerID, rec.ActivityID, rec.LocalDate, string(rec.Status), rec.CreatedAt)
	return err
}
