package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Settings is the unified persisted settings shape. Earlier releases
// stored credentials and combined blobs under separate keys; migration
// v3 folds those into this shape at open time.
type Settings struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
	Endpoint string `json:"endpoint"`
	Language string `json:"language"`
}

// LoadSettings reads the unified settings blob. A missing or malformed
// blob yields zero-value settings, never an error that would block the
// analysis path.
func (s *SQLiteStorage) LoadSettings(ctx context.Context) (Settings, error) {
	if err := validateContext(ctx); err != nil {
		return Settings{}, err
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, settingsKey).Scan(&value)
	if err == sql.ErrNoRows {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	var settings Settings
	if uerr := json.Unmarshal([]byte(value), &settings); uerr != nil {
		slog.Warn("malformed persisted settings, falling back to defaults", "error", uerr)
		return Settings{}, nil
	}
	return settings, nil
}

// SaveSettings fully replaces the persisted settings blob.
func (s *SQLiteStorage) SaveSettings(ctx context.Context, settings Settings) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	value, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, settingsKey, string(value)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
