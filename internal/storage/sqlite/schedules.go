package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/storage"
)

const scheduleColumns = "id, activity_id, schedule_type, start_at, end_at, recurrence_rule, timezone, metadata, created_at, updated_at"

func (s *Store) GetSchedulesForActivity(activityID string) ([]models.ActivitySchedule, error) {
	rows, err := s.db.Query(`
		SELECT `+scheduleColumns+`
		FROM schedules WHERE activity_id = ?
		ORDER BY created_at, id`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ActivitySchedule
	for rows.Next() {
		var sc models.ActivitySchedule
		var schedType, metadata, createdAt, updatedAt string
		var startAt, endAt sql.NullString

		err := rows.Scan(&sc.ID, &sc.ActivityID, &schedType, &startAt, &endAt,
			&sc.RecurrenceRule, &sc.Timezone, &metadata, &createdAt, &updatedAt)
		if err != nil {
			return nil, err
		}

		sc.ScheduleType = models.ScheduleType(schedType)
		if sc.StartAt, err = parseNullTime(startAt); err != nil {
			return nil, err
		}
		if sc.EndAt, err = parseNullTime(endAt); err != nil {
			return nil, err
		}
		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &sc.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		if sc.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if sc.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) AddSchedule(schedule models.ActivitySchedule) error {
	metadata, err := json.Marshal(schedule.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO schedules (`+scheduleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		schedule.ID, schedule.ActivityID, string(schedule.ScheduleType),
		nullTimeString(schedule.StartAt), nullTimeString(schedule.EndAt),
		schedule.RecurrenceRule, schedule.Timezone, string(metadata),
		timeString(schedule.CreatedAt), timeString(schedule.UpdatedAt))
	return err
}

func (s *Store) UpdateSchedule(schedule models.ActivitySchedule) error {
	metadata, err := json.Marshal(schedule.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	result, err := s.db.Exec(`
		UPDATE schedules
		SET schedule_type = ?, start_at = ?, end_at = ?, recurrence_rule = ?,
		    timezone = ?, metadata = ?, updated_at = ?
		WHERE id = ?`,
		string(schedule.ScheduleType), nullTimeString(schedule.StartAt),
		nullTimeString(schedule.EndAt), schedule.RecurrenceRule,
		schedule.Timezone, string(metadata), timeString(schedule.UpdatedAt),
		schedule.ID)
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

func (s *Store) DeleteSchedule(id string) error {
	_, err := s.db.Exec(`DELETE FROM schedules WHERE id = ?`, id)
	return err
}
