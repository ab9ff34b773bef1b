package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/storage"
)

const activityColumns = "id, type, title, description, owner_id, status, metadata, created_at, updated_at, archived_at"

func (s *Store) GetActivity(id string) (models.Activity, error) {
	row := s.db.QueryRow(`
		SELECT `+activityColumns+`
		FROM activities WHERE id = ?`, id)
	return scanActivity(row)
}

func (s *Store) GetActivitiesByOwner(ownerID string, filter storage.ActivityFilter) ([]models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE owner_id = ?`
	args := []interface{}{ownerID}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.ID, string(activity.Type), activity.Title, activity.Description,
		activity.OwnerID, string(activity.Status), string(metadata),
		timeString(activity.CreatedAt), timeString(activity.UpdatedAt),
		nullTimeString(activity.ArchivedAt))
	return err
}

func (s *Store) UpdateActivity(activity models.Activity) error {
	metadata, err := json.Marshal(activity.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	result, err := s.db.Exec(`
		UPDATE activities
		SET type = ?, title = ?, description = ?, status = ?, metadata = ?,
		    updated_at = ?, archived_at = ?
		WHERE id = ?`,
		string(activity.Type), activity.Title, activity.Description,
		string(activity.Status), string(metadata),
		timeString(activity.UpdatedAt), nullTimeString(activity.ArchivedAt),
		activity.ID)
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
	var actType, status, metadata, createdAt, updatedAt string
	var archivedAt sql.NullString

	err := row.Scan(&a.ID, &actType, &a.Title, &a.Description, &a.OwnerID,
		&status, &metadata, &createdAt, &updatedAt, &archivedAt)
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
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Activity{}, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Activity{}, err
	}
	if a.ArchivedAt, err = parseNullTime(archivedAt); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}
