package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/storage"
)

const projectionColumns = "id, owner_id, activity_id, source_entity_id, title, description, start_at, end_at, all_day, event_type, state, created_at, updated_at"

func (s *Store) GetActiveProjection(activityID, ownerID string) (models.Projection, error) {
	row := s.db.QueryRow(`
		SELECT `+projectionColumns+`
		FROM projections
		WHERE activity_id = ? AND owner_id = ? AND state = ?`,
		activityID, ownerID, string(models.ProjectionActive))
	return scanProjection(row)
}

func (s *Store) GetProjectionBySource(ownerID, sourceEntityID string) (models.Projection, error) {
	row := s.db.QueryRow(`
		SELECT `+projectionColumns+`
		FROM projections
		WHERE source_entity_id = ? AND owner_id = ?`,
		sourceEntityID, ownerID)
	return scanProjection(row)
}

func (s *Store) GetProjectionsForActivity(ownerID, activityID string) ([]models.Projection, error) {
	rows, err := s.db.Query(`
		SELECT `+projectionColumns+`
		FROM projections
		WHERE activity_id = ? AND owner_id = ?
		ORDER BY created_at, id`, activityID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Projection
	for rows.Next() {
		p, err := scanProjection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetActiveProjectionsInRange(ownerID string, rangeStart, rangeEnd time.Time) ([]models.Projection, error) {
	rows, err := s.db.Query(`
		SELECT `+projectionColumns+`
		FROM projections
		WHERE owner_id = ? AND state = ?
		  AND start_at IS NOT NULL AND start_at <= ?
		  AND (end_at IS NULL OR end_at >= ?)
		ORDER BY start_at, id`,
		ownerID, string(models.ProjectionActive), timeString(rangeEnd), timeString(rangeStart))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Projection
	for rows.Next() {
		p, err := scanProjection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) AddProjection(p models.Projection) error {
	_, err := s.db.Exec(`
		INSERT INTO projections (`+projectionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.ActivityID, p.SourceEntityID, p.Title, p.Description,
		nullTimeString(p.StartAt), nullTimeString(p.EndAt), boolInt(p.AllDay),
		p.EventType, string(p.State), timeString(p.CreatedAt), timeString(p.UpdatedAt))
	return err
}

func (s *Store) UpdateProjection(p models.Projection) error {
	result, err := s.db.Exec(`
		UPDATE projections
		SET title = ?, description = ?, start_at = ?, end_at = ?, all_day = ?,
		    event_type = ?, state = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Description, nullTimeString(p.StartAt), nullTimeString(p.EndAt),
		boolInt(p.AllDay), p.EventType, string(p.State), timeString(p.UpdatedAt),
		p.ID)
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

func (s *Store) DeleteProjection(id string) error {
	_, err := s.db.Exec(`DELETE FROM projections WHERE id = ?`, id)
	return err
}

func scanProjection(row scanner) (models.Projection, error) {
	var p models.Projection
	var startAt, endAt sql.NullString
	var allDay int
	var state, createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.OwnerID, &p.ActivityID, &p.SourceEntityID,
		&p.Title, &p.Description, &startAt, &endAt, &allDay, &p.EventType,
		&state, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Projection{}, storage.ErrNotFound
		}
		return models.Projection{}, err
	}

	p.AllDay = allDay != 0
	p.State = models.ProjectionState(state)
	if p.StartAt, err = parseNullTime(startAt); err != nil {
		return models.Projection{}, err
	}
	if p.EndAt, err = parseNullTime(endAt); err != nil {
		return models.Projection{}, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Projection{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Projection{}, err
	}
	return p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
