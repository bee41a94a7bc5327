package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the
// application expects.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: codes and settings",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS codes (
					id TEXT PRIMARY KEY,
					description TEXT NOT NULL,
					start_time TEXT NOT NULL DEFAULT '',
					end_time TEXT NOT NULL DEFAULT '',
					duration_hours REAL NOT NULL DEFAULT 0,
					color TEXT NOT NULL DEFAULT '',
					exportable INTEGER NOT NULL DEFAULT 1,
					overnight INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS settings (
					key TEXT PRIMARY KEY,
					value TEXT NOT NULL,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Persist analysis runs for later review/export",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS schedules (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					person_name TEXT NOT NULL,
					month INTEGER NOT NULL,
					year INTEGER NOT NULL,
					days TEXT NOT NULL,
					found INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_schedules_person ON schedules(person_name, year, month)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Fold legacy settings keys into the unified app_settings blob",
		Up:          migrateLegacySettings,
	},
}

// Legacy settings keys from earlier releases. api_settings held only
// credentials; legacy_settings held a combined blob under different
// field names. Both fold into app_settings exactly once.
const (
	settingsKey       = "app_settings"
	legacyAPIKey      = "api_settings"
	legacyCombinedKey = "legacy_settings"
)

func migrateLegacySettings(tx *sql.Tx) error {
	current, err := readSettingsValue(tx, settingsKey)
	if err != nil {
		return err
	}
	if current != nil {
		// Unified shape already present; drop leftovers.
		return dropLegacyKeys(tx)
	}

	merged := Settings{}

	if raw, rerr := readSettingsValue(tx, legacyCombinedKey); rerr == nil && raw != nil {
		var legacy struct {
			Provider string `json:"provider"`
			APIKey   string `json:"apiKey"`
			Endpoint string `json:"endpoint"`
			Language string `json:"language"`
		}
		if uerr := json.Unmarshal(raw, &legacy); uerr != nil {
			// Malformed persisted blobs are recoverable: log and keep defaults.
			slog.Warn("ignoring malformed legacy settings blob", "error", uerr)
		} else {
			merged.Provider = legacy.Provider
			merged.APIKey = legacy.APIKey
			merged.Endpoint = legacy.Endpoint
			merged.Language = legacy.Language
		}
	}

	if raw, rerr := readSettingsValue(tx, legacyAPIKey); rerr == nil && raw != nil {
		var creds struct {
			APIKey string `json:"apiKey"`
		}
		if uerr := json.Unmarshal(raw, &creds); uerr != nil {
			slog.Warn("ignoring malformed legacy credentials blob", "error", uerr)
		} else if creds.APIKey != "" {
			merged.APIKey = creds.APIKey
		}
	}

	if merged != (Settings{}) {
		value, merr := json.Marshal(merged)
		if merr != nil {
			return fmt.Errorf("failed to marshal migrated settings: %w", merr)
		}
		if _, werr := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?)`, settingsKey, string(value)); werr != nil {
			return fmt.Errorf("failed to write migrated settings: %w", werr)
		}
		slog.Info("migrated legacy settings to unified shape")
	}

	return dropLegacyKeys(tx)
}

func dropLegacyKeys(tx *sql.Tx) error {
	if _, err := tx.Exec(`DELETE FROM settings WHERE key IN (?, ?)`, legacyAPIKey, legacyCombinedKey); err != nil {
		return fmt.Errorf("failed to drop legacy settings keys: %w", err)
	}
	return nil
}

func readSettingsValue(tx *sql.Tx, key string) ([]byte, error) {
	var value string
	err := tx.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings key %s: %w", key, err)
	}
	return []byte(value), nil
}

// runMigrations applies pending migrations inside transactions.
func runMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_versions (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_versions (version, description) VALUES (?, ?)`,
			m.Version, m.Description); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Info("applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}
