package sqlite

import (
	"database/sql"
	"strings"

	"github.com/hearth-planner/hearth/internal/models"
)

// The roadmap tables are populated by external import and can carry loose
// data: blank titles, malformed timestamps. Normalization happens here so the
// rest of the system only ever sees well-formed values.

func (s *Store) GetProjects(ownerID string) ([]models.Project, error) {
	rows, err := s.db.Query(`
		SELECT id, title FROM roadmap_projects
		WHERE owner_id = ? ORDER BY title, id`, ownerID)
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
		WHERE project_id = ? ORDER BY title, id`, projectID)
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
		WHERE track_id = ? ORDER BY title, id`, trackID)
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
		WHERE p.owner_id = ? AND i.project_id = ?`
	args := []interface{}{ownerID, scope.ProjectID}
	if scope.TrackID != "" {
		query += " AND i.track_id = ?"
		args = append(args, scope.TrackID)
	}
	if scope.SubtrackID != "" {
		query += " AND i.subtrack_id = ?"
		args = append(args, scope.SubtrackID)
	}
	if scope.ItemID != "" {
		query += " AND i.id = ?"
		args = append(args, scope.ItemID)
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
		var title, startAt, endAt sql.NullString
		if err := rows.Scan(&item.ID, &item.ProjectID, &item.TrackID, &item.SubtrackID, &title, &startAt, &endAt); err != nil {
			return nil, err
		}
		item.Title = normalizeTitle(title, item.ID)
		// A malformed timestamp degrades the item to undated rather than
		// failing the whole scope resolution.
		if t, err := parseNullTime(startAt); err == nil {
			item.StartAt = t
		}
		if t, err := parseNullTime(endAt); err == nil {
			item.EndAt = t
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// AddRoadmapProject seeds an imported project row. Used by the roadmap
// import path and tests.
func (s *Store) AddRoadmapProject(ownerID string, p models.Project) error {
	_, err := s.db.Exec(`
		INSERT INTO roadmap_projects (id, owner_id, title) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title`,
		p.ID, ownerID, p.Title)
	return err
}

func (s *Store) AddRoadmapTrack(t models.Track) error {
	_, err := s.db.Exec(`
		INSERT INTO roadmap_tracks (id, project_id, title) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title`,
		t.ID, t.ProjectID, t.Title)
	return err
}

func (s *Store) AddRoadmapSubtrack(st models.Subtrack) error {
	_, err := s.db.Exec(`
		INSERT INTO roadmap_subtracks (id, track_id, title) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title`,
		st.ID, st.TrackID, st.Title)
	return err
}

func (s *Store) AddRoadmapItem(item models.RoadmapItem) error {
	_, err := s.db.Exec(`
		INSERT INTO roadmap_items (id, project_id, track_id, subtrack_id, title, start_at, end_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, start_at = excluded.start_at, end_at = excluded.end_at`,
		item.ID, item.ProjectID, item.TrackID, item.SubtrackID, item.Title,
		nullTimeString(item.StartAt), nullTimeString(item.EndAt))
	return err
}

func normalizeTitle(title sql.NullString, fallback string) string {
	if title.Valid && strings.TrimSpace(title.String) != "" {
		return strings.TrimSpace(title.String)
	}
	return fallback
}
