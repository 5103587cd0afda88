package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/healthnexus/nexus/internal/platform/db/dbtest"
)

func TestPatientRepo_UpsertAndGet(t *testing.T) {
	repo := NewPatientRepoSQL(dbtest.Open(t))
	ctx := context.Background()

	p := &Patient{ID: "p1", Identifier: "MRN-1", Family: "Doe", Given: "Jane Q", Gender: "female",
		BirthDate: "1980-02-01", City: "Boston", State: "MA", Country: "US"}
	if err := repo.UpsertBatch(ctx, []*Patient{p}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *p {
		t.Errorf("expected %+v, got %+v", *p, *got)
	}
}

func TestPatientRepo_UpsertReplaces(t *testing.T) {
	repo := NewPatientRepoSQL(dbtest.Open(t))
	ctx := context.Background()

	if err := repo.UpsertBatch(ctx, []*Patient{{ID: "p1", Family: "Doe", City: "Boston"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertBatch(ctx, []*Patient{{ID: "p1", Family: "Smith"}}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
	got, _ := repo.GetByID(ctx, "p1")
	if got.Family != "Smith" {
		t.Errorf("expected family Smith, got %q", got.Family)
	}
	if got.City != "" {
		t.Errorf("expected city to be replaced with empty, got %q", got.City)
	}
}

func TestPatientRepo_NotFound(t *testing.T) {
	repo := NewPatientRepoSQL(dbtest.Open(t))
	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}
