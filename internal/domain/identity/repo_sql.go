package identity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/healthnexus/nexus/internal/platform/db"
)

type patientRepoSQL struct{ conn *sql.DB }

func NewPatientRepoSQL(conn *sql.DB) PatientRepository {
	return &patientRepoSQL{conn: conn}
}

func (r *patientRepoSQL) q(ctx context.Context) db.Queryer { return db.Conn(ctx, r.conn) }

const patientCols = `id, identifier, family, given, gender, birth_date, city, state, country`

const upsertPatientSQL = `
	INSERT INTO patients (` + patientCols + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	ON CONFLICT (id) DO UPDATE SET
		identifier = excluded.identifier,
		family     = excluded.family,
		given      = excluded.given,
		gender     = excluded.gender,
		birth_date = excluded.birth_date,
		city       = excluded.city,
		state      = excluded.state,
		country    = excluded.country`

func (r *patientRepoSQL) UpsertBatch(ctx context.Context, patients []*Patient) error {
	rows := make([][]any, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, []any{p.ID, p.Identifier, p.Family, p.Given, p.Gender, p.BirthDate, p.City, p.State, p.Country})
	}
	return db.ExecBatch(ctx, r.q(ctx), upsertPatientSQL, rows)
}

func (r *patientRepoSQL) GetByID(ctx context.Context, id string) (*Patient, error) {
	var p Patient
	err := r.q(ctx).QueryRowContext(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id).
		Scan(&p.ID, &p.Identifier, &p.Family, &p.Given, &p.Gender, &p.BirthDate, &p.City, &p.State, &p.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoSQL) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n)
	return n, err
}
