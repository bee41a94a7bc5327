package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rotaflow/rota/internal/common"
	"github.com/rotaflow/rota/internal/model"
)

// SaveSchedule persists a finished analysis run and fills in its ID.
func (s *SQLiteStorage) SaveSchedule(ctx context.Context, schedule *model.Schedule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if schedule == nil {
		return fmt.Errorf("%w: schedule", ErrNilParameter)
	}

	days, err := json.Marshal(schedule.Days)
	if err != nil {
		return fmt.Errorf("failed to marshal day sequence: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO schedules (person_name, month, year, days, found)
		VALUES (?, ?, ?, ?, ?)`,
		schedule.PersonName, schedule.Month, schedule.Year, string(days), schedule.Found)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get schedule ID: %w", err)
	}
	schedule.ID = id

	slog.Info("saved schedule",
		"id", id,
		"person", schedule.PersonName,
		"month", schedule.Month,
		"year", schedule.Year,
		"resolved", schedule.Days.Resolved())
	return nil
}

// GetSchedule loads one stored schedule by ID.
func (s *SQLiteStorage) GetSchedule(ctx context.Context, id int64) (*model.Schedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		schedule model.Schedule
		days     string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, person_name, month, year, days, found, created_at, updated_at
		FROM schedules WHERE id = ?`, id).Scan(
		&schedule.ID, &schedule.PersonName, &schedule.Month, &schedule.Year,
		&days, &schedule.Found, &schedule.CreatedAt, &schedule.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: schedule %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}

	if uerr := json.Unmarshal([]byte(days), &schedule.Days); uerr != nil {
		return nil, fmt.Errorf("%w: malformed day sequence for schedule %d: %s",
			common.ErrDatabaseCorrupted, id, uerr)
	}
	return &schedule, nil
}

// ListSchedules returns stored schedules, newest first.
func (s *SQLiteStorage) ListSchedules(ctx context.Context) ([]model.Schedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, person_name, month, year, days, found, created_at, updated_at
		FROM schedules ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []model.Schedule
	for rows.Next() {
		var (
			schedule model.Schedule
			days     string
		)
		if err := rows.Scan(
			&schedule.ID, &schedule.PersonName, &schedule.Month, &schedule.Year,
			&days, &schedule.Found, &schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		if uerr := json.Unmarshal([]byte(days), &schedule.Days); uerr != nil {
			slog.Warn("skipping schedule with malformed day sequence", "id", schedule.ID, "error", uerr)
			continue
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}
	return schedules, nil
}

// UpdateScheduleDays replaces the day sequence of a stored schedule.
func (s *SQLiteStorage) UpdateScheduleDays(ctx context.Context, id int64, days model.DaySequence) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	value, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("failed to marshal day sequence: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE schedules SET days = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(value), id)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: schedule %d", common.ErrNotFound, id)
	}
	return nil
}
