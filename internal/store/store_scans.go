package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dupescan/internal/fingerprint"
	"dupescan/internal/services"
)

const scanColumns = `id, root, started_at, finished_at, file_count`

// SaveScan inserts scan and its records in one transaction. Record IDs are
// assigned in place.
func (s *Store) SaveScan(ctx context.Context, scan Scan, records []*fingerprint.Record) error {
	ctx = ensureContext(ctx)
	if scan.ID == "" {
		return services.Wrap(services.ErrConfiguration, "store", "save scan", "scan id required", nil)
	}
	if scan.StartedAt.IsZero() {
		scan.StartedAt = time.Now()
	}
	scan.FileCount = len(records)

	ids := make([]int64, len(records))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scans (id, root, started_at, finished_at, file_count) VALUES (?, ?, ?, ?, ?)`,
			scan.ID, scan.Root, nullableTime(scan.StartedAt), nullableTime(scan.FinishedAt), scan.FileCount,
		); err != nil {
			return fmt.Errorf("insert scan: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO files (
            scan_id, name, path, size, content_type, hash, fuzzy_hash, entropy, similarity_score, category
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare file insert: %w", err)
		}
		defer stmt.Close()

		for i, record := range records {
			res, err := stmt.ExecContext(ctx,
				scan.ID,
				record.Name,
				record.Path,
				record.Size,
				record.ContentType,
				record.Hash,
				nullableString(record.FuzzyHash),
				record.Entropy,
				record.SimilarityScore,
				nullableString(record.Category),
			)
			if err != nil {
				return fmt.Errorf("insert file %s: %w", record.Path, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("last insert id: %w", err)
			}
			ids[i] = id
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i, record := range records {
		record.ID = ids[i]
	}
	return nil
}

// LatestScan returns the most recently started scan.
func (s *Store) LatestScan(ctx context.Context) (*Scan, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+scanColumns+` FROM scans ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	scan, err := scanScan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "latest scan", "no scans recorded", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("latest scan: %w", err)
	}
	return scan, nil
}

// Scan returns the scan with id.
func (s *Store) Scan(ctx context.Context, id string) (*Scan, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+scanColumns+` FROM scans WHERE id = ?`, id)
	scan, err := scanScan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get scan", fmt.Sprintf("scan %s", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get scan: %w", err)
	}
	return scan, nil
}

// Scans lists scans newest first. limit <= 0 returns all.
func (s *Store) Scans(ctx context.Context, limit int) ([]Scan, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + scanColumns + ` FROM scans ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		scan, err := scanScan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		scans = append(scans, *scan)
	}
	return scans, rows.Err()
}
