package postgres

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
		FROM schedules WHERE activity_id = $1
		ORDER BY created_at, id`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ActivitySchedule
	for rows.Next() {
		var sc models.ActivitySchedule
		var schedType, metadata string
		var startAt, endAt sql.NullTime

		err := rows.Scan(&sc.ID, &sc.ActivityID, &schedType, &startAt, &endAt,
			&sc.RecurrenceRule, &sc.Timezone, &metadata, &sc.CreatedAt, &sc.UpdatedAt)
		if err != nil {
			return nil, err
		}

		sc.ScheduleType = models.ScheduleType(schedType)
		sc.StartAt = timePtr(startAt)
		sc.EndAt = timePtr(endAt)
		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &sc.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schedule.ID, schedule.ActivityID, string(schedule.ScheduleType),
		nullTime(schedule.StartAt), nullTime(schedule.EndAt),
		schedule.RecurrenceRule, schedule.Timezone, string(metadata),
		schedule.CreatedAt, schedule.UpdatedAt)
	return err
}

func (s *Store) UpdateSchedule(schedule models.ActivitySchedule) error {
	metadata, err := json.Marshal(schedule.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	result, err := s.db.Exec(`
		UPDATE schedules
		SET schedule_type = $1, start_at = $2, end_at = $3, recurrence_rule = $4,
		    timezone = $5, metadata = $6, updated_at = $7
		WHERE id = $8`,
		string(schedule.ScheduleType), nullTime(schedule.StartAt),
		nullTime(schedule.EndAt), schedule.RecurrenceRule, schedule.Timezone,
		string(metadata), schedule.UpdatedAt, schedule.ID)
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
	_, err := s.db.Exec(`DELETE FROM schedules WHERE id = $1`, id)
	return err
}
