package observation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/healthnexus/nexus/internal/platform/db"
)

type repoSQL struct{ conn *sql.DB }

func NewRepoSQL(conn *sql.DB) Repository {
	return &repoSQL{conn: conn}
}

func (r *repoSQL) q(ctx context.Context) db.Queryer { return db.Conn(ctx, r.conn) }

const obsCols = `id, status, category, code, subject, effective, value, component`

const upsertObservationSQL = `
	INSERT INTO observations (` + obsCols + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	ON CONFLICT (id) DO UPDATE SET
		status    = excluded.status,
		category  = excluded.category,
		code      = excluded.code,
		subject   = excluded.subject,
		effective = excluded.effective,
		value     = excluded.value,
		component = excluded.component`

const insertGeneticVariantSQL = `
	INSERT INTO obs_genetic_variants (obs_id, subject, gene, significance, effective)
	VALUES ($1,$2,$3,$4,$5)`

const insertPharmacogenomicsSQL = `
	INSERT INTO obs_pharmacogenomics (obs_id, subject, gene, phenotype, implication, effective)
	VALUES ($1,$2,$3,$4,$5,$6)`

func scanObservation(row interface{ Scan(dest ...any) error }) (*Observation, error) {
	var o Observation
	err := row.Scan(&o.ID, &o.Status, &o.Category, &o.Code, &o.Subject, &o.Effective, &o.Value, &o.Component)
	return &o, err
}

func (r *repoSQL) UpsertBatch(ctx context.Context, obs []*Observation) error {
	rows := make([][]any, 0, len(obs))
	for _, o := range obs {
		rows = append(rows, []any{o.ID, o.Status, o.Category, o.Code, o.Subject, o.Effective, o.Value, o.Component})
	}
	return db.ExecBatch(ctx, r.q(ctx), upsertObservationSQL, rows)
}

func (r *repoSQL) AppendGeneticVariants(ctx context.Context, variants []*GeneticVariant) error {
	rows := make([][]any, 0, len(variants))
	for _, v := range variants {
		rows = append(rows, []any{v.ObsID, v.Subject, v.Gene, v.Significance, v.Effective})
	}
	return db.ExecBatch(ctx, r.q(ctx), insertGeneticVariantSQL, rows)
}

func (r *repoSQL) AppendPharmacogenomics(ctx context.Context, items []*Pharmacogenomics) error {
	rows := make([][]any, 0, len(items))
	for _, p := range items {
		rows = append(rows, []any{p.ObsID, p.Subject, p.Gene, p.Phenotype, p.Implication, p.Effective})
	}
	return db.ExecBatch(ctx, r.q(ctx), insertPharmacogenomicsSQL, rows)
}

func (r *repoSQL) GetByID(ctx context.Context, id string) (*Observation, error) {
	o, err := scanObservation(r.q(ctx).QueryRowContext(ctx, `SELECT `+obsCols+` FROM observations WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repoSQL) LatestBySubject(ctx context.Context, subject string) (*Observation, error) {
	o, err := scanObservation(r.q(ctx).QueryRowContext(ctx,
		`SELECT `+obsCols+` FROM observations WHERE subject = $1 ORDER BY effective DESC LIMIT 1`, subject))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repoSQL) ListGeneticVariants(ctx context.Context, subject string) ([]*GeneticVariant, error) {
	rows, err := r.q(ctx).QueryContext(ctx, `
		SELECT obs_id, subject, gene, significance, effective
		FROM obs_genetic_variants WHERE subject = $1`, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*GeneticVariant
	for rows.Next() {
		var v GeneticVariant
		if err := rows.Scan(&v.ObsID, &v.Subject, &v.Gene, &v.Significance, &v.Effective); err != nil {
			return nil, err
		}
		items = append(items, &v)
	}
	return items, rows.Err()
}

func (r *repoSQL) ListPharmacogenomics(ctx context.Context, subject string) ([]*Pharmacogenomics, error) {
	rows, err := r.q(ctx).QueryContext(ctx, `
		SELECT obs_id, subject, gene, phenotype, implication, effective
		FROM obs_pharmacogenomics WHERE subject = $1`, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Pharmacogenomics
	for rows.Next() {
		var p Pharmacogenomics
		if err := rows.Scan(&p.ObsID, &p.Subject, &p.Gene, &p.Phenotype, &p.Implication, &p.Effective); err != nil {
			return nil, err
		}
		items = append(items, &p)
	}
	return items, rows.Err()
}
