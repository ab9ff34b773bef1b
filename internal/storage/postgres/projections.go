package postgres

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
		WHERE activity_id = $1 AND owner_id = $2 AND state = $3`,
		activityID, ownerID, string(models.ProjectionActive))
	return scanProjection(row)
}

func (s *Store) GetProjectionBySource(ownerID, sourceEntityID string) (models.Projection, error) {
	row := s.db.QueryRow(`
		SELECT `+projectionColumns+`
		FROM projections
		WHERE source_entity_id = $1 AND owner_id = $2`,
		sourceEntityID, ownerID)
	return scanProjection(row)
}

func (s *Store) GetProjectionsForActivity(ownerID, activityID string) ([]models.Projection, error) {
	rows, err := s.db.Query(`
		SELECT `+projectionColumns+`
		FROM projections
		WHERE activity_id = $1 AND owner_id = $2
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
		WHERE owner_id = $1 AND state = $2
		  AND start_at IS NOT NULL AND start_at <= $3
		  AND (end_at IS NULL OR end_at >= $4)
		ORDER BY start_at, id`,
		ownerID, string(models.ProjectionActive), rangeEnd, rangeStart)
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.OwnerID, p.ActivityID, p.SourceEntityID, p.Title, p.Description,
		nullTime(p.StartAt), nullTime(p.EndAt), p.AllDay, p.EventType,
		string(p.State), p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *Store) UpdateProjection(p models.Projection) error {
	result, err := s.db.Exec(`
		UPDATE projections
		SET title = $1, description = $2, start_at = $3, end_at = $4, all_day = $5,
		    event_type = $6, state = $7, updated_at = $8
		WHERE id = $9`,
		p.Title, p.Description, nullTime(p.StartAt), nullTime(p.EndAt), p.AllDay,
		p.EventType, string(p.State), p.UpdatedAt, p.ID)
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
	_, err := s.db.Exec(`DELETE FROM projections WHERE id = $1`, id)
	return err
}

func scanProjection(row scanner) (models.Projection, error) {
	var p models.Projection
	var startAt, endAt sql.NullTime
	var state string

	err := row.Scan(&p.ID, &p.OwnerID, &p.ActivityID, &p.SourceEntityID,
		&p.Title, &p.Description, &startAt, &endAt, &p.AllDay, &p.EventType,
		&state, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Projection{}, storage.ErrNotFound
		}
		return models.Projection{}, err
	}

	p.State = models.ProjectionState(state)
	p.StartAt = timePtr(startAt)
	p.EndAt = timePtr(endAt)
	return p, nil
}
