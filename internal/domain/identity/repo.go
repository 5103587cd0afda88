package identity

import (
	"context"
	"errors"
)

var ErrPatientNotFound = errors.New("patient not found")

type PatientRepository interface {
	// UpsertBatch replaces each patient row by primary key.
	UpsertBatch(ctx context.Context, patients []*Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Count(ctx context.Context) (int, error)
}
