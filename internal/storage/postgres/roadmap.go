package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/hearth-planner/hearth/internal/models"
)

func (s *Store) GetProjects(ownerID string) ([]models.Project, error) {
	rows, err := s.db.Query(`
		SELECT id, title FROM roadmap_projects
		WHERE owner_id = $1 ORDER BY title, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		var title sql.NullString
		if err := rows.Scan(&p.ID, &title); err != nil {
			return nil, err
		}
		p.Title = normalizeTitle(title, p.ID)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetTracks(projectID string) ([]models.Track, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, title FROM roadmap_tracks
		WHERE project_id = $1 ORDER BY title, id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Track
	for rows.Next() {
		var t models.Track
		var title sql.NullString
		if err := rows.Scan(&t.ID, &t.ProjectID, &title); err != nil {
			return nil, err
		}
		t.Title = normalizeTitle(title, t.ID)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetSubtracks(trackID string) ([]models.Subtrack, error) {
	rows, err := s.db.Query(`
		SELECT id, track_id, title FROM roadmap_subtracks
		WHERE track_id = $1 ORDER BY title, id`, trackID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Subtrack
	for rows.Next() {
		var st models.Subtrack
		var title sql.NullString
		if err := rows.Scan(&st.ID, &st.TrackID, &title); err != nil {
			return nil, err
		}
		st.Title = normalizeTitle(title, st.ID)
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) GetItemsInScope(ownerID string, scope models.SyncKey) ([]models.RoadmapItem, error) {
	query := `
		SELECT i.id, i.project_id, i.track_id, i.subtrack_id, i.title, i.start_at, i.end_at
		FROM roadmap_items i
		JOIN roadmap_projects p ON p.id = i.project_id
		WHERE p.owner_id = $1 AND i.project_id = $2`
	args := []interface{}{ownerID, scope.ProjectID}
	if scope.TrackID != "" {
		args = append(args, scope.TrackID)
		query += fmt.Sprintf(" AND i.track_id = $%d", len(args))
	}
	if scope.SubtrackID != "" {
		args = append(args, scope.SubtrackID)
		query += fmt.Sprintf(" AND i.subtrack_id = $%d", len(args))
	}
	if scope.ItemID != "" {
		args = append(args, scope.ItemID)
		query += fmt.Sprintf(" AND i.id = $%d", len(args))
	}
	query += " ORDER BY i.start_at, i.id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RoadmapItem
	for rows.Next() {
		var item models.RoadmapItem
		var title sql.NullString
		var startAt, endAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.ProjectID, &item.TrackID, &item.SubtrackID, &title, &startAt, &endAt); err != nil {
			return nil, err
		}
		item.Title = normalizeTitle(title, item.ID)
		item.StartAt = timePtr(startAt)
		item.EndAt = timePtr(endAt)
		out = append(out, item)
	}
	return out, rows.Err()
}

// AddRoadmapProject seeds an imported project row. Used by the roadmap
// import path and tests.
func (s *Store) AddRoadmapProject(ownerID string, p models.Project) error {
	_, err := s.db.Exec(`
		INSERT INTO roadmap_projects (id, owner_id, title) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET title = excluded.title`,
		p.ID, ownerID, p.Title)
	return err
}

func (s *Store) AddRoadmapTrack(t models.Track) error {
	_, err := s.db.Exec(`
		INSERT INTO roadmap_tracks (id, project_id, title) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET title = excluded.title`,
		t.ID, t.ProjectID, t.Title)
	return err
}

func (s *Store) AddRoadmapSubtrack(st models.Subtrack) error {
	_, err := s.db.Exec(`
		INSERT INTO roadmap_subtracks (id, track_id, title) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET title = excluded.title`,
		st.ID, st.TrackID, st.Title)
	return err
}

func (s *Store) AddRoadmapItem(item models.RoadmapItem) error {
	_, err := s.db.Exec(`
		INSERT INTO roadmap_items (id, project_id, track_id, subtrack_id, title, start_at, end_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET title = excluded.title, start_at = excluded.start_at, end_at = excluded.end_at`,
		item.ID, item.ProjectID, item.TrackID, item.SubtrackID, item.Title,
		nullTime(item.StartAt), nullTime(item.EndAt))
	return err
}

func normalizeTitle(title sql.NullString, fallback string) string {
	if title.Valid && strings.TrimSpace(title.String) != "" {
		return strings.TrimSpace(title.String)
	}
	return fallback
}
