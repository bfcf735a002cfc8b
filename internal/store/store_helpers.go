package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dupescan/internal/fingerprint"
)

const fileColumns = `id, name, path, size, content_type, hash, fuzzy_hash, entropy, similarity_score, category`

type rowScanner interface{ Scan(dest ...any) error }

func scanFile(row rowScanner) (*fingerprint.Record, error) {
	var (
		record    fingerprint.Record
		fuzzyHash sql.NullString
		category  sql.NullString
	)
	if err := row.Scan(
		&record.ID,
		&record.Name,
		&record.Path,
		&record.Size,
		&record.ContentType,
		&record.Hash,
		&fuzzyHash,
		&record.Entropy,
		&record.SimilarityScore,
		&category,
	); err != nil {
		return nil, err
	}
	record.FuzzyHash = fuzzyHash.String
	record.Category = category.String
	return &record, nil
}

func collectFiles(rows *sql.Rows) ([]*fingerprint.Record, error) {
	defer rows.Close()
	var records []*fingerprint.Record
	for rows.Next() {
		record, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file rows: %w", err)
	}
	return records, nil
}

func scanScan(row rowScanner) (*Scan, error) {
	var (
		scan       Scan
		startedRaw string
		finished   sql.NullString
	)
	if err := row.Scan(&scan.ID, &scan.Root, &startedRaw, &finished, &scan.FileCount); err != nil {
		return nil, err
	}
	started, err := parseTimeString(startedRaw)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	scan.StartedAt = started
	if finished.Valid {
		if t, err := parseTimeString(finished.String); err == nil {
			scan.FinishedAt = t
		}
	}
	return &scan, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(timestampLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
