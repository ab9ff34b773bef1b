package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/storage"
)

const activityColumns = "id, type, title, description, owner_id, status, metadata, created_at, updated_at, archived_at"

func (s *Store) GetActivity(id string) (models.Activity, error) {
	row := s.db.QueryRow(`
		SELECT `+activityColumns+`
		FROM activities WHERE id = $1`, id)
	return scanActivity(row)
}

func (s *Store) GetActivitiesByOwner(ownerID string, filter storage.ActivityFilter) ([]models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, activity)
	}
	return out, rows.Err()
}

func (s *Store) AddActivity(activity models.Activity) error {
	metadata, err := json.Marshal(activity.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO activities (`+activityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		activity.ID, string(activity.Type), activity.Title, activity.Description,
		activity.OwnerID, string(activity.Status), string(metadata),
		activity.CreatedAt, activity.UpdatedAt, nullTime(activity.ArchivedAt))
	return err
}

func (s *Store) UpdateActivity(activity models.Activity) error {
	metadata, err := json.Marshal(activity.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	result, err := s.db.Exec(`
		UPDATE activities
		SET type = $1, title = $2, description = $3, status = $4, metadata = $5,
		    updated_at = $6, archived_at = $7
		WHERE id = $8`,
		string(activity.Type), activity.Title, activity.Description,
		string(activity.Status), string(metadata), activity.UpdatedAt,
		nullTime(activity.ArchivedAt), activity.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row scanner) (models.Activity, error) {
	var a models.Activity
	var actType, status, metadata string
	var archivedAt sql.NullTime

	err := row.Scan(&a.ID, &actType, &a.Title, &a.Description, &a.OwnerID,
		&status, &metadata, &a.CreatedAt, &a.UpdatedAt, &archivedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Activity{}, storage.ErrNotFound
		}
		return models.Activity{}, err
	}

	a.Type = models.ActivityType(actType)
	a.Status = models.ActivityStatus(status)
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &a.Metadata); err != nil {
			return models.Activity{}, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	if archivedAt.Valid {
		t := archivedAt.Time
		a.ArchivedAt = &t
	}
	return a, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
