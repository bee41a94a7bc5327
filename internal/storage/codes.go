package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/rotaflow/rota/internal/model"
)

// GetCodes returns all registered codes ordered by identifier.
func (s *SQLiteStorage) GetCodes(ctx context.Context) ([]model.Code, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, description, start_time, end_time, duration_hours,
		       color, exportable, overnight, created_at, updated_at
		FROM codes
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query codes: %w", err)
	}
	defer rows.Close()

	var codes []model.Code
	for rows.Next() {
		var code model.Code
		if err := rows.Scan(
			&code.ID, &code.Description, &code.StartTime, &code.EndTime,
			&code.Duration, &code.Color, &code.Exportable, &code.Overnight,
			&code.CreatedAt, &code.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating codes: %w", err)
	}

	slog.Debug("retrieved codes", "count", len(codes))
	return codes, nil
}

// GetCode returns a single code by identifier, or nil when absent.
func (s *SQLiteStorage) GetCode(ctx context.Context, id string) (*model.Code, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, description, start_time, end_time, duration_hours,
		       color, exportable, overnight, created_at, updated_at
		FROM codes
		WHERE id = ?`

	var code model.Code
	err := s.db.QueryRowContext(ctx, query, model.NormalizeCodeID(id)).Scan(
		&code.ID, &code.Description, &code.StartTime, &code.EndTime,
		&code.Duration, &code.Color, &code.Exportable, &code.Overnight,
		&code.CreatedAt, &code.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query code: %w", err)
	}
	return &code, nil
}

// SaveCode inserts or fully replaces a code.
func (s *SQLiteStorage) SaveCode(ctx context.Context, code *model.Code) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if code == nil {
		return fmt.Errorf("%w: code", ErrNilParameter)
	}
	if err := code.Validate(); err != nil {
		return fmt.Errorf("invalid code: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO codes (id, description, start_time, end_time, duration_hours,
		                   color, exportable, overnight, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_hours = excluded.duration_hours,
			color = excluded.color,
			exportable = excluded.exportable,
			overnight = excluded.overnight,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		model.NormalizeCodeID(code.ID), code.Description, code.StartTime, code.EndTime,
		code.Duration, code.Color, code.Exportable, code.Overnight, now, now)
	if err != nil {
		return fmt.Errorf("failed to save code: %w", err)
	}

	slog.Debug("saved code", "id", code.ID)
	return nil
}

// DeleteCode removes a code. Deleting an absent identifier is a no-op.
func (s *SQLiteStorage) DeleteCode(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM codes WHERE id = ?`, model.NormalizeCodeID(id)); err != nil {
		return fmt.Errorf("failed to delete code: %w", err)
	}
	return nil
}
