package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rotaflow/rota/internal/common"
	"github.com/rotaflow/rota/internal/model"
)

// Helper function to create migrated test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestSQLiteStorage_CodeOperations(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	code := &model.Code{
		ID:          "n12",
		Description: "Night shift",
		StartTime:   "22:00",
		EndTime:     "06:00",
		Color:       "#6B5B95",
		Exportable:  true,
		Overnight:   true,
	}
	if err := store.SaveCode(ctx, code); err != nil {
		t.Fatalf("SaveCode() error = %v", err)
	}

	// Identifier is stored in canonical form.
	got, err := store.GetCode(ctx, "N12")
	if err != nil {
		t.Fatalf("GetCode() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected code, got nil")
	}
	if got.ID != "N12" || !got.Overnight || got.StartTime != "22:00" {
		t.Errorf("unexpected code: %+v", got)
	}

	// Upsert replaces the definition in place.
	code.Description = "Twelve-hour night"
	if err := store.SaveCode(ctx, code); err != nil {
		t.Fatalf("SaveCode() upsert error = %v", err)
	}
	codes, err := store.GetCodes(ctx)
	if err != nil {
		t.Fatalf("GetCodes() error = %v", err)
	}
	if len(codes) != 1 {
		t.Fatalf("len(codes) = %d, want 1", len(codes))
	}
	if codes[0].Description != "Twelve-hour night" {
		t.Errorf("Description = %q, want updated value", codes[0].Description)
	}

	// Invalid codes never reach the database.
	if err := store.SaveCode(ctx, &model.Code{ID: "BAD", Description: "x", StartTime: "nope", EndTime: "06:00"}); err == nil {
		t.Error("expected validation error")
	}

	if err := store.DeleteCode(ctx, "n12"); err != nil {
		t.Fatalf("DeleteCode() error = %v", err)
	}
	if got, _ := store.GetCode(ctx, "N12"); got != nil {
		t.Error("code still present after delete")
	}

	// Deleting an absent code is a no-op.
	if err := store.DeleteCode(ctx, "N12"); err != nil {
		t.Errorf("DeleteCode() on absent id = %v, want nil", err)
	}
}

func TestSQLiteStorage_ScheduleOperations(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	days := model.NewDaySequence(2, 2025)
	days[0] = "JRD"
	days[1] = "RH"

	schedule := &model.Schedule{
		PersonName: "Alice",
		Month:      2,
		Year:       2025,
		Days:       days,
		Found:      true,
	}
	if err := store.SaveSchedule(ctx, schedule); err != nil {
		t.Fatalf("SaveSchedule() error = %v", err)
	}
	if schedule.ID == 0 {
		t.Fatal("SaveSchedule did not assign an ID")
	}

	got, err := store.GetSchedule(ctx, schedule.ID)
	if err != nil {
		t.Fatalf("GetSchedule() error = %v", err)
	}
	if got.PersonName != "Alice" || len(got.Days) != 28 || got.Days[0] != "JRD" || !got.Found {
		t.Errorf("unexpected schedule: %+v", got)
	}

	revised, err := model.ReviseDay(got.Days, 2, "M7M")
	if err != nil {
		t.Fatalf("ReviseDay() error = %v", err)
	}
	if err := store.UpdateScheduleDays(ctx, schedule.ID, revised); err != nil {
		t.Fatalf("UpdateScheduleDays() error = %v", err)
	}

	got, err = store.GetSchedule(ctx, schedule.ID)
	if err != nil {
		t.Fatalf("GetSchedule() after update error = %v", err)
	}
	if got.Days[2] != "M7M" {
		t.Errorf("Days[2] = %q, want M7M", got.Days[2])
	}

	list, err := store.ListSchedules(ctx)
	if err != nil {
		t.Fatalf("ListSchedules() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len(list) = %d, want 1", len(list))
	}

	if _, err := store.GetSchedule(ctx, 9999); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateScheduleDays(ctx, 9999, revised); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_Settings(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Missing settings load as zero values, not as an error.
	settings, err := store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings != (Settings{}) {
		t.Errorf("expected zero settings, got %+v", settings)
	}

	want := Settings{Provider: "ocrspace", APIKey: "k123", Language: "spa"}
	if err := store.SaveSettings(ctx, want); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	settings, err = store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings != want {
		t.Errorf("LoadSettings() = %+v, want %+v", settings, want)
	}

	// Malformed persisted settings degrade to defaults instead of
	// blocking the analysis path.
	if _, err := store.db.ExecContext(ctx,
		`UPDATE settings SET value = 'not json' WHERE key = ?`, settingsKey); err != nil {
		t.Fatalf("failed to corrupt settings: %v", err)
	}
	settings, err = store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings() on corrupt data error = %v", err)
	}
	if settings != (Settings{}) {
		t.Errorf("expected zero settings after corruption, got %+v", settings)
	}
}

// rollBackTo removes migration records past version so Migrate re-runs
// the later ones.
func rollBackTo(t *testing.T, store *SQLiteStorage, version int) {
	t.Helper()
	if _, err := store.db.Exec(
		`DELETE FROM schema_versions WHERE version > ?`, version); err != nil {
		t.Fatalf("failed to roll back schema version: %v", err)
	}
}

func TestSQLiteStorage_LegacySettingsMigration(t *testing.T) {
	tests := []struct {
		name   string
		seed   map[string]string
		want   Settings
		absent bool
	}{
		{
			name: "combined legacy blob",
			seed: map[string]string{
				legacyCombinedKey: `{"provider":"ocrspace","apiKey":"old-key","endpoint":"https://example.test","language":"eng"}`,
			},
			want: Settings{Provider: "ocrspace", APIKey: "old-key", Endpoint: "https://example.test", Language: "eng"},
		},
		{
			name: "credentials-only legacy blob",
			seed: map[string]string{
				legacyAPIKey: `{"apiKey":"cred-key"}`,
			},
			want: Settings{APIKey: "cred-key"},
		},
		{
			name: "credentials override the combined blob key",
			seed: map[string]string{
				legacyCombinedKey: `{"provider":"vision","apiKey":"stale"}`,
				legacyAPIKey:      `{"apiKey":"fresh"}`,
			},
			want: Settings{Provider: "vision", APIKey: "fresh"},
		},
		{
			name: "malformed legacy blobs are skipped",
			seed: map[string]string{
				legacyCombinedKey: `{{{`,
			},
			absent: true,
		},
		{
			name: "existing unified blob wins",
			seed: map[string]string{
				settingsKey:       `{"provider":"tesseract"}`,
				legacyCombinedKey: `{"provider":"ocrspace","apiKey":"old"}`,
			},
			want: Settings{Provider: "tesseract"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := createTestStorage(t)
			defer cleanup()
			ctx := context.Background()

			rollBackTo(t, store, 2)
			for key, value := range tt.seed {
				if _, err := store.db.ExecContext(ctx,
					`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
					t.Fatalf("failed to seed legacy key %s: %v", key, err)
				}
			}

			if err := store.Migrate(ctx); err != nil {
				t.Fatalf("Migrate() error = %v", err)
			}

			settings, err := store.LoadSettings(ctx)
			if err != nil {
				t.Fatalf("LoadSettings() error = %v", err)
			}
			if tt.absent {
				if settings != (Settings{}) {
					t.Errorf("expected zero settings, got %+v", settings)
				}
			} else if settings != tt.want {
				t.Errorf("LoadSettings() = %+v, want %+v", settings, tt.want)
			}

			// Legacy keys are gone either way.
			var count int
			if err := store.db.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM settings WHERE key IN (?, ?)`,
				legacyAPIKey, legacyCombinedKey).Scan(&count); err != nil {
				t.Fatalf("failed to count legacy keys: %v", err)
			}
			if count != 0 {
				t.Errorf("%d legacy keys remain after migration", count)
			}
		})
	}
}

func TestSQLiteStorage_SchemaVersion(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("SchemaVersion() = %d, want %d", version, ExpectedSchemaVersion)
	}

	// Migrate is idempotent.
	if err := store.Migrate(ctx); err != nil {
		t.Errorf("second Migrate() error = %v", err)
	}
}

func TestValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	//nolint:staticcheck // passing nil context on purpose
	if _, err := store.GetCodes(nil); !errors.Is(err, ErrNilContext) {
		t.Errorf("expected ErrNilContext, got %v", err)
	}
	if _, err := NewSQLiteStorage(""); !errors.Is(err, ErrEmptyString) {
		t.Errorf("expected ErrEmptyString, got %v", err)
	}
	if err := store.SaveCode(context.Background(), nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("expected ErrNilParameter, got %v", err)
	}
}
