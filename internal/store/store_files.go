package store

import (
	"context"
	"database/sql"
	"fmt"

	"dupescan/internal/fingerprint"
)

// Files returns the records of a scan in their original scan order.
func (s *Store) Files(ctx context.Context, scanID string) ([]*fingerprint.Record, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+fileColumns+` FROM files WHERE scan_id = ? ORDER BY id`, scanID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return collectFiles(rows)
}

// FilesByID returns the records with the given ids, ordered by id. Unknown
// ids are ignored.
func (s *Store) FilesByID(ctx context.Context, ids []int64) ([]*fingerprint.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx = ensureContext(ctx)
	query := `SELECT ` + fileColumns + ` FROM files WHERE id IN (` + makePlaceholders(len(ids)) + `) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("files by id: %w", err)
	}
	return collectFiles(rows)
}

// DeleteFiles removes file rows and returns how many were deleted.
func (s *Store) DeleteFiles(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx = ensureContext(ctx)
	var deleted int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM files WHERE id IN (`+makePlaceholders(len(ids))+`)`, int64Args(ids)...)
		if err != nil {
			return fmt.Errorf("delete files: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
