package observation

import (
	"context"
	"errors"
)

// ErrNoRows is returned by repository point lookups that match nothing.
var ErrNoRows = errors.New("observation not found")

type Repository interface {
	UpsertBatch(ctx context.Context, obs []*Observation) error
	AppendGeneticVariants(ctx context.Context, rows []*GeneticVariant) error
	AppendPharmacogenomics(ctx context.Context, rows []*Pharmacogenomics) error

	GetByID(ctx context.Context, id string) (*Observation, error)
	// LatestBySubject returns the observation with the greatest effective
	// timestamp for subject, or ErrNoRows.
	LatestBySubject(ctx context.Context, subject string) (*Observation, error)
	ListGeneticVariants(ctx context.Context, subject string) ([]*GeneticVariant, error)
	ListPharmacogenomics(ctx context.Context, subject string) ([]*Pharmacogenomics, error)
}
