package molecularsequence

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("molecular sequence not found")

type MolecularSequenceRepository interface {
	UpsertBatch(ctx context.Context, seqs []*MolecularSequence) error
	GetByID(ctx context.Context, id string) (*MolecularSequence, error)
	ListByPatient(ctx context.Context, patientRef string) ([]*MolecularSequence, error)
}
