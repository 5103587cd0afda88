package db

import (
	"context"
	"fmt"
)

// ExecBatch prepares query once and executes it for every argument row.
// Callers wanting all-or-nothing semantics run it inside WithTx.
func ExecBatch(ctx context.Context, q Queryer, query string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := q.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}
