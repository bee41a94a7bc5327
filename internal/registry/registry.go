// Package registry maintains the set of known shift codes and is the
// source of truth for validation and fuzzy matching.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/rotaflow/rota/internal/common"
	"github.com/rotaflow/rota/internal/model"
)

// Store is the persistence surface the registry needs. Implemented by
// storage.SQLiteStorage.
type Store interface {
	GetCodes(ctx context.Context) ([]model.Code, error)
	SaveCode(ctx context.Context, code *model.Code) error
	DeleteCode(ctx context.Context, id string) error
}

// Registry holds the code set in memory and writes every mutation
// through to the store before returning. It is loaded once per session.
type Registry struct {
	store Store
	codes map[string]model.Code
}

// Load reads the code set from the store. An empty store is seeded with
// the built-in defaults so the registry is never empty.
func Load(ctx context.Context, store Store) (*Registry, error) {
	r := &Registry{
		store: store,
		codes: make(map[string]model.Code),
	}

	codes, err := store.GetCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load codes: %w", err)
	}

	if len(codes) == 0 {
		slog.Info("code registry empty, seeding defaults")
		for _, code := range DefaultCodes() {
			seeded := code
			if saveErr := store.SaveCode(ctx, &seeded); saveErr != nil {
				return nil, fmt.Errorf("failed to seed default code %s: %w", code.ID, saveErr)
			}
			r.codes[seeded.ID] = seeded
		}
		return r, nil
	}

	for _, code := range codes {
		r.codes[model.NormalizeCodeID(code.ID)] = code
	}
	return r, nil
}

// Normalize returns the canonical identifier form.
func (r *Registry) Normalize(id string) string {
	return model.NormalizeCodeID(id)
}

// Get returns the code for id, if present.
func (r *Registry) Get(id string) (model.Code, bool) {
	code, ok := r.codes[model.NormalizeCodeID(id)]
	return code, ok
}

// List returns the canonical identifiers in stable (sorted) order.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.codes))
	for id := range r.codes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered codes.
func (r *Registry) Len() int {
	return len(r.codes)
}

// Upsert validates and persists a code, then updates the in-memory set.
// The prior state is untouched when validation or persistence fails.
func (r *Registry) Upsert(ctx context.Context, code model.Code) error {
	code.ID = model.NormalizeCodeID(code.ID)
	code.Description = strings.TrimSpace(code.Description)
	if err := code.Validate(); err != nil {
		return fmt.Errorf("%w: %s", common.ErrInvalidCode, err)
	}

	if err := r.store.SaveCode(ctx, &code); err != nil {
		return fmt.Errorf("failed to persist code %s: %w", code.ID, err)
	}
	r.codes[code.ID] = code
	slog.Debug("registry upsert", "code", code.ID)
	return nil
}

// Delete removes a code. Deleting an absent identifier is a no-op.
func (r *Registry) Delete(ctx context.Context, id string) error {
	id = model.NormalizeCodeID(id)
	if _, ok := r.codes[id]; !ok {
		return nil
	}
	if err := r.store.DeleteCode(ctx, id); err != nil {
		return fmt.Errorf("failed to delete code %s: %w", id, err)
	}
	delete(r.codes, id)
	slog.Debug("registry delete", "code", id)
	return nil
}

// Rename replaces oldID with a code under newID (identifiers are
// immutable, so a rename is a delete plus a create). It fails when the
// new identifier collides with a different existing entry.
func (r *Registry) Rename(ctx context.Context, oldID string, code model.Code) error {
	oldID = model.NormalizeCodeID(oldID)
	newID := model.NormalizeCodeID(code.ID)
	if newID != oldID {
		if _, exists := r.codes[newID]; exists {
			return fmt.Errorf("%w: identifier %s already exists", common.ErrInvalidCode, newID)
		}
	}
	if err := r.Upsert(ctx, code); err != nil {
		return err
	}
	if newID != oldID {
		return r.Delete(ctx, oldID)
	}
	return nil
}

// DefaultCodes is the hardcoded fallback set used when no persisted
// registry exists yet.
func DefaultCodes() []model.Code {
	return []model.Code{
		{ID: "JRD", Description: "Regular day shift", StartTime: "08:00", EndTime: "16:00", Color: "#4ECDC4", Exportable: true},
		{ID: "M7M", Description: "Morning shift (7h)", StartTime: "07:00", EndTime: "14:00", Color: "#95E1D3", Exportable: true},
		{ID: "T7M", Description: "Afternoon shift (7h)", StartTime: "14:00", EndTime: "21:00", Color: "#FFE66D", Exportable: true},
		{ID: "N12", Description: "Night shift", StartTime: "22:00", EndTime: "06:00", Color: "#6B5B95", Exportable: true, Overnight: true},
		{ID: "RH", Description: "Rest day", Duration: 0, Color: "#CCCCCC", Exportable: false},
		{ID: "VAC", Description: "Vacation", Duration: 0, Color: "#FF6B6B", Exportable: false},
	}
}
