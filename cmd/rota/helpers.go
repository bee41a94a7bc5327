package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/rotaflow/rota/internal/common"
	"github.com/rotaflow/rota/internal/config"
	"github.com/rotaflow/rota/internal/ocr"
	"github.com/rotaflow/rota/internal/reconcile"
	"github.com/rotaflow/rota/internal/registry"
	"github.com/rotaflow/rota/internal/storage"
)

// initStorage initializes the storage layer with proper path expansion
// and auto-migration.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// loadRegistry loads the code registry, seeding defaults on first run.
func loadRegistry(ctx context.Context, store *storage.SQLiteStorage) (*registry.Registry, error) {
	reg, err := registry.Load(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load code registry: %w", err)
	}
	return reg, nil
}

// buildProvider selects the OCR provider. The --provider flag overrides
// persisted settings; missing credentials degrade to the demo provider
// so the pipeline stays runnable offline.
func buildProvider(ctx context.Context, store *storage.SQLiteStorage, override string) (ocr.Provider, error) {
	settings, err := store.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}

	name := settings.Provider
	if override != "" {
		name = override
	}
	if v := viper.GetString("ocr.provider"); name == "" && v != "" {
		name = v
	}

	apiKey := settings.APIKey
	if v := viper.GetString("ocr.api_key"); v != "" {
		apiKey = v
	}

	var provider ocr.Provider
	switch name {
	case "tesseract":
		provider = ocr.NewTesseractProvider()
	case "vision":
		if apiKey == "" {
			if override != "" {
				return nil, fmt.Errorf("%w: vision requires an API key (rota settings set --api-key)", common.ErrNoCredentials)
			}
			slog.Warn("no Vision API key configured, falling back to demo provider")
			return ocr.NewDemoProvider(), nil
		}
		provider = ocr.NewVisionProvider(apiKey)
	case "demo":
		return ocr.NewDemoProvider(), nil
	case "ocrspace", "":
		if apiKey == "" {
			if override != "" {
				return nil, fmt.Errorf("%w: ocrspace requires an API key (rota settings set --api-key)", common.ErrNoCredentials)
			}
			slog.Warn("no OCR API key configured, falling back to demo provider")
			return ocr.NewDemoProvider(), nil
		}
		provider = ocr.NewHTTPProvider(settings.Endpoint, apiKey)
	default:
		return nil, fmt.Errorf("%w: unknown OCR provider %q", common.ErrInvalidConfig, name)
	}
	return ocr.WithLanguage(provider, settings.Language), nil
}

// buildEngine wires storage, registry, and OCR into a schedule engine.
func buildEngine(ctx context.Context, store *storage.SQLiteStorage, providerOverride string) (*reconcile.Engine, *registry.Registry, error) {
	reg, err := loadRegistry(ctx, store)
	if err != nil {
		return nil, nil, err
	}
	provider, err := buildProvider(ctx, store, providerOverride)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("engine ready", "provider", provider.Name(), "codes", reg.Len())
	return reconcile.NewEngine(store, reg, provider), reg, nil
}
