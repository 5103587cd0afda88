package molecularsequence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/healthnexus/nexus/internal/platform/db"
)

type molecularSequenceRepoSQL struct{ conn *sql.DB }

func NewMolecularSequenceRepoSQL(conn *sql.DB) MolecularSequenceRepository {
	return &molecularSequenceRepoSQL{conn: conn}
}

func (r *molecularSequenceRepoSQL) q(ctx context.Context) db.Queryer { return db.Conn(ctx, r.conn) }

// Window columns are read back through CAST so both the sqlite INTEGER and
// postgres TEXT layouts scan into strings.
const msCols = `id, type, patient_ref, chromosome, genome_build, orientation,
	COALESCE(CAST(window_start AS TEXT), ''), COALESCE(CAST(window_end AS TEXT), '')`

const upsertSequenceSQL = `
	INSERT INTO molecular_sequences (id, type, patient_ref, chromosome, genome_build, orientation, window_start, window_end)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	ON CONFLICT (id) DO UPDATE SET
		type         = excluded.type,
		patient_ref  = excluded.patient_ref,
		chromosome   = excluded.chromosome,
		genome_build = excluded.genome_build,
		orientation  = excluded.orientation,
		window_start = excluded.window_start,
		window_end   = excluded.window_end`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSequence(row rowScanner) (*MolecularSequence, error) {
	var m MolecularSequence
	err := row.Scan(&m.ID, &m.Type, &m.PatientRef, &m.Chromosome, &m.GenomeBuild, &m.Orientation,
		&m.WindowStart, &m.WindowEnd)
	return &m, err
}

func (r *molecularSequenceRepoSQL) UpsertBatch(ctx context.Context, seqs []*MolecularSequence) error {
	rows := make([][]any, 0, len(seqs))
	for _, m := range seqs {
		rows = append(rows, []any{m.ID, m.Type, m.PatientRef, m.Chromosome, m.GenomeBuild, m.Orientation,
			m.WindowStart, m.WindowEnd})
	}
	return db.ExecBatch(ctx, r.q(ctx), upsertSequenceSQL, rows)
}

func (r *molecularSequenceRepoSQL) GetByID(ctx context.Context, id string) (*MolecularSequence, error) {
	m, err := scanSequence(r.q(ctx).QueryRowContext(ctx, `SELECT `+msCols+` FROM molecular_sequences WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *molecularSequenceRepoSQL) ListByPatient(ctx context.Context, patientRef string) ([]*MolecularSequence, error) {
	rows, err := r.q(ctx).QueryContext(ctx, `SELECT `+msCols+` FROM molecular_sequences WHERE patient_ref = $1 ORDER BY id`, patientRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*MolecularSequence
	for rows.Next() {
		m, err := scanSequence(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
