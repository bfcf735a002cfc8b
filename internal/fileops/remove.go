package fileops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"dupescan/internal/fingerprint"
	"dupescan/internal/logging"
)

// FileStore is the persistence surface needed to remove files.
type FileStore interface {
	FilesByID(ctx context.Context, ids []int64) ([]*fingerprint.Record, error)
	DeleteFiles(ctx context.Context, ids []int64) (int64, error)
}

// RemoveReport counts the outcome of a removal.
type RemoveReport struct {
	Requested int      `json:"requested"`
	Removed   int      `json:"removed"`
	Missing   int      `json:"missing"`
	Failed    int      `json:"failed"`
	Unknown   int      `json:"unknown"`
	Rows      int64    `json:"rows_deleted"`
	Paths     []string `json:"paths"`
}

// Remove deletes the files with the given ids from disk and then their rows.
// Files already gone count as missing and their rows are still dropped; files
// that cannot be deleted are logged and keep their rows.
func Remove(ctx context.Context, st FileStore, ids []int64, logger *slog.Logger) (RemoveReport, error) {
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "fileops"))
	report := RemoveReport{Requested: len(ids)}

	records, err := st.FilesByID(ctx, ids)
	if err != nil {
		return report, fmt.Errorf("remove: load files: %w", err)
	}
	report.Unknown = len(ids) - len(records)

	var drop []int64
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		err := os.Remove(record.Path)
		switch {
		case err == nil:
			report.Removed++
			report.Paths = append(report.Paths, record.Path)
			drop = append(drop, record.ID)
			logger.Info("file removed", logging.String(logging.FieldPath, record.Path), logging.Int64("id", record.ID))
		case errors.Is(err, os.ErrNotExist):
			report.Missing++
			drop = append(drop, record.ID)
		default:
			report.Failed++
			logging.WarnWithContext(logger, "file removal failed", "remove_failed",
				logging.String(logging.FieldPath, record.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "file kept on disk and in the index"),
				logging.String(logging.FieldErrorHint, "check file permissions"),
			)
		}
	}

	rows, err := st.DeleteFiles(ctx, drop)
	if err != nil {
		return report, fmt.Errorf("remove: delete rows: %w", err)
	}
	report.Rows = rows
	return report, nil
}
