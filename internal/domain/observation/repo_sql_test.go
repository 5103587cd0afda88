package observation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/healthnexus/nexus/internal/platform/db/dbtest"
)

func TestRepo_UpsertReplacesByID(t *testing.T) {
	repo := NewRepoSQL(dbtest.Open(t))
	ctx := context.Background()

	first := &Observation{ID: "obs-1", Status: "preliminary", Subject: "Patient/p1", Value: "1", Component: "[]"}
	second := &Observation{ID: "obs-1", Status: "final", Subject: "Patient/p1", Value: "2", Component: `[{"a":1}]`}
	require.NoError(t, repo.UpsertBatch(ctx, []*Observation{first}))
	require.NoError(t, repo.UpsertBatch(ctx, []*Observation{second}))

	got, err := repo.GetByID(ctx, "obs-1")
	require.NoError(t, err)
	if diff := cmp.Diff(second, got); diff != "" {
		t.Errorf("observation mismatch (-want +got):\n%s", diff)
	}
}

func TestRepo_LatestBySubject(t *testing.T) {
	repo := NewRepoSQL(dbtest.Open(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, []*Observation{
		{ID: "old", Subject: "Patient/p1", Effective: "2023-01-01T00:00:00Z", Component: `["old"]`},
		{ID: "new", Subject: "Patient/p1", Effective: "2024-06-01T00:00:00Z", Component: `["new"]`},
		{ID: "other", Subject: "Patient/p2", Effective: "2025-01-01T00:00:00Z", Component: `["other"]`},
	}))

	got, err := repo.LatestBySubject(ctx, "Patient/p1")
	require.NoError(t, err)
	if got.ID != "new" {
		t.Errorf("expected latest observation new, got %s", got.ID)
	}

	_, err = repo.LatestBySubject(ctx, "Patient/none")
	if !errors.Is(err, ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestRepo_DerivedRowsAppend(t *testing.T) {
	repo := NewRepoSQL(dbtest.Open(t))
	ctx := context.Background()

	gv := &GeneticVariant{ObsID: "obs-1", Subject: "Patient/p1", Gene: "BRCA1", Significance: "Pathogenic", Effective: "2024-01-01"}
	pg := &Pharmacogenomics{ObsID: "obs-2", Subject: "Patient/p1", Gene: "CYP2C19", Phenotype: "Poor metabolizer", Implication: "Avoid clopidogrel"}
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.AppendGeneticVariants(ctx, []*GeneticVariant{gv}))
		require.NoError(t, repo.AppendPharmacogenomics(ctx, []*Pharmacogenomics{pg}))
	}

	variants, err := repo.ListGeneticVariants(ctx, "Patient/p1")
	require.NoError(t, err)
	require.Len(t, variants, 2)
	if diff := cmp.Diff(gv, variants[0]); diff != "" {
		t.Errorf("variant mismatch (-want +got):\n%s", diff)
	}

	pgxRows, err := repo.ListPharmacogenomics(ctx, "Patient/p1")
	require.NoError(t, err)
	require.Len(t, pgxRows, 2)
	if diff := cmp.Diff(pg, pgxRows[1]); diff != "" {
		t.Errorf("pharmacogenomics mismatch (-want +got):\n%s", diff)
	}
}
