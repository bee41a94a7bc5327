package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rotaflow/rota/internal/common"
	"github.com/rotaflow/rota/internal/model"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	codes   map[string]model.Code
	saveErr error
}

func newMemStore(codes ...model.Code) *memStore {
	s := &memStore{codes: make(map[string]model.Code)}
	for _, code := range codes {
		s.codes[model.NormalizeCodeID(code.ID)] = code
	}
	return s
}

func (s *memStore) GetCodes(_ context.Context) ([]model.Code, error) {
	out := make([]model.Code, 0, len(s.codes))
	for _, code := range s.codes {
		out = append(out, code)
	}
	return out, nil
}

func (s *memStore) SaveCode(_ context.Context, code *model.Code) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.codes[model.NormalizeCodeID(code.ID)] = *code
	return nil
}

func (s *memStore) DeleteCode(_ context.Context, id string) error {
	delete(s.codes, model.NormalizeCodeID(id))
	return nil
}

func TestLoadSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	reg, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if reg.Len() != len(DefaultCodes()) {
		t.Errorf("Len() = %d, want %d", reg.Len(), len(DefaultCodes()))
	}
	if _, ok := reg.Get("JRD"); !ok {
		t.Error("expected default code JRD")
	}
	// Seeding writes through to the store.
	if len(store.codes) != len(DefaultCodes()) {
		t.Errorf("store has %d codes, want %d", len(store.codes), len(DefaultCodes()))
	}
}

func TestLoadExistingDoesNotSeed(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(model.Code{ID: "XX", Description: "Custom"})

	reg, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	if _, ok := reg.Get("JRD"); ok {
		t.Error("defaults must not be seeded over an existing registry")
	}
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(model.Code{ID: "XX", Description: "Custom"})
	reg, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := reg.Upsert(ctx, model.Code{ID: " n12 ", Description: "Night", StartTime: "22:00", EndTime: "06:00", Overnight: true}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	code, ok := reg.Get("N12")
	if !ok {
		t.Fatal("upserted code not found")
	}
	if code.ID != "N12" || !code.Overnight {
		t.Errorf("unexpected code: %+v", code)
	}

	// Invalid codes are rejected with a typed error and no state change.
	err = reg.Upsert(ctx, model.Code{ID: "BAD", Description: "x", StartTime: "8am", EndTime: "16:00"})
	if !errors.Is(err, common.ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	if _, ok := reg.Get("BAD"); ok {
		t.Error("invalid code must not enter the registry")
	}

	// A persistence failure leaves memory untouched.
	store.saveErr = fmt.Errorf("disk full")
	if err := reg.Upsert(ctx, model.Code{ID: "YY", Description: "y"}); err == nil {
		t.Fatal("expected persistence error")
	}
	if _, ok := reg.Get("YY"); ok {
		t.Error("failed upsert must not enter the registry")
	}
}

func TestDeleteAbsentIsNoOp(t *testing.T) {
	ctx := context.Background()
	reg, err := Load(ctx, newMemStore(model.Code{ID: "XX", Description: "Custom"}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := reg.Delete(ctx, "NOPE"); err != nil {
		t.Errorf("deleting an absent code must be a no-op, got %v", err)
	}
	if err := reg.Delete(ctx, "xx"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	reg, err := Load(ctx, newMemStore(
		model.Code{ID: "OLD", Description: "Old shift"},
		model.Code{ID: "TAKEN", Description: "Other"},
	))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Collision with a different identifier fails.
	err = reg.Rename(ctx, "OLD", model.Code{ID: "TAKEN", Description: "Old shift"})
	if !errors.Is(err, common.ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}

	if err := reg.Rename(ctx, "OLD", model.Code{ID: "NEW", Description: "Old shift"}); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if _, ok := reg.Get("OLD"); ok {
		t.Error("old identifier still present")
	}
	if _, ok := reg.Get("NEW"); !ok {
		t.Error("new identifier missing")
	}
}

func TestListIsSorted(t *testing.T) {
	ctx := context.Background()
	reg, err := Load(ctx, newMemStore(
		model.Code{ID: "ZZ", Description: "z"},
		model.Code{ID: "AA", Description: "a"},
		model.Code{ID: "MM", Description: "m"},
	))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ids := reg.List()
	want := []string{"AA", "MM", "ZZ"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("List() = %v, want %v", ids, want)
		}
	}
}
