// Package importer loads a FHIR bundle into the record store.
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthnexus/nexus/internal/domain/identity"
	"github.com/healthnexus/nexus/internal/domain/molecularsequence"
	"github.com/healthnexus/nexus/internal/domain/observation"
	"github.com/healthnexus/nexus/internal/platform/db"
	"github.com/healthnexus/nexus/internal/platform/fhir"
)

// DefaultSource is the bundle read when no source is given.
const DefaultSource = "./genome_test_data.json"

// Summary counts the rows written by one import.
type Summary struct {
	Patients           int `json:"patients"`
	Observations       int `json:"observations"`
	MolecularSequences int `json:"molecular_sequences"`
	GeneticVariants    int `json:"genetic_variants"`
	Pharmacogenomics   int `json:"pharmacogenomics"`
	Skipped            int `json:"skipped"`
}

// Line renders the summary as printed at the end of an import into dbName.
func (s Summary) Line(dbName string) string {
	return fmt.Sprintf("Inserted %d patients, %d observations, %d molecular sequences, %d genetic variant obs, and %d pharmacogenomics obs into %s.",
		s.Patients, s.Observations, s.MolecularSequences, s.GeneticVariants, s.Pharmacogenomics, dbName)
}

// LockFunc takes a cross-process lock and returns its release function.
type LockFunc func(ctx context.Context) (release func(context.Context) error, err error)

type Importer struct {
	conn         *sql.DB
	patients     identity.PatientRepository
	observations observation.Repository
	sequences    molecularsequence.MolecularSequenceRepository
	lock         LockFunc
	logger       zerolog.Logger
}

func New(conn *sql.DB, logger zerolog.Logger) *Importer {
	return &Importer{
		conn:         conn,
		patients:     identity.NewPatientRepoSQL(conn),
		observations: observation.NewRepoSQL(conn),
		sequences:    molecularsequence.NewMolecularSequenceRepoSQL(conn),
		logger:       logger,
	}
}

// WithLock makes every Write hold lock for its duration, serializing
// imports that share one store.
func (im *Importer) WithLock(lock LockFunc) *Importer {
	im.lock = lock
	return im
}

// Import decodes the bundle read from r and writes every extracted row in a
// single transaction. A malformed bundle commits nothing.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Summary, error) {
	log := im.logger.With().Str("import_id", uuid.NewString()).Logger()

	bundle, err := fhir.DecodeBundle(r)
	if err != nil {
		return nil, err
	}

	var batch Batch
	for _, res := range bundle.Resources() {
		if err := batch.Add(res); err != nil {
			return nil, err
		}
		if u, ok := res.(*fhir.Unhandled); ok {
			log.Debug().Str("resource_type", u.Type).Str("id", u.ID).Msg("skipping unhandled resource")
		}
	}

	if err := im.Write(ctx, &batch); err != nil {
		return nil, err
	}

	sum := &Summary{
		Patients:           len(batch.Patients),
		Observations:       len(batch.Observations),
		MolecularSequences: len(batch.MolecularSequences),
		GeneticVariants:    len(batch.GeneticVariants),
		Pharmacogenomics:   len(batch.Pharmacogenomics),
		Skipped:            batch.Skipped,
	}
	log.Info().
		Int("patients", sum.Patients).
		Int("observations", sum.Observations).
		Int("molecular_sequences", sum.MolecularSequences).
		Int("genetic_variants", sum.GeneticVariants).
		Int("pharmacogenomics", sum.Pharmacogenomics).
		Int("skipped", sum.Skipped).
		Msg("bundle imported")
	return sum, nil
}

// Write stores a batch table by table: patients, observations, molecular
// sequences, then the two append-only derived tables.
func (im *Importer) Write(ctx context.Context, b *Batch) (err error) {
	if im.lock != nil {
		release, lerr := im.lock(ctx)
		if lerr != nil {
			return fmt.Errorf("acquire import lock: %w", lerr)
		}
		defer func() {
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				im.logger.Warn().Err(rerr).Msg("release import lock")
			}
		}()
	}
	return db.WithTx(ctx, im.conn, func(ctx context.Context) error {
		if err := im.patients.UpsertBatch(ctx, b.Patients); err != nil {
			return fmt.Errorf("write patients: %w", err)
		}
		if err := im.observations.UpsertBatch(ctx, b.Observations); err != nil {
			return fmt.Errorf("write observations: %w", err)
		}
		if err := im.sequences.UpsertBatch(ctx, b.MolecularSequences); err != nil {
			return fmt.Errorf("write molecular sequences: %w", err)
		}
		if err := im.observations.AppendGeneticVariants(ctx, b.GeneticVariants); err != nil {
			return fmt.Errorf("write genetic variants: %w", err)
		}
		if err := im.observations.AppendPharmacogenomics(ctx, b.Pharmacogenomics); err != nil {
			return fmt.Errorf("write pharmacogenomics: %w", err)
		}
		return nil
	})
}
