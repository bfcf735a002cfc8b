package fileops

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dupescan/internal/config"
	"dupescan/internal/fileutil"
	"dupescan/internal/fingerprint"
	"dupescan/internal/logging"
)

// OrganizeReport counts the outcome of an organize pass.
type OrganizeReport struct {
	Moved   int `json:"moved"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Organize moves records into <baseDir>/<bucket> for every requested bucket
// whose extension list contains the record's content type. Files are moved
// only when the source exists and the destination does not; Path is updated
// on success. Per-file failures are logged and counted.
func Organize(ctx context.Context, records []*fingerprint.Record, baseDir string, buckets []string, logger *slog.Logger) (OrganizeReport, error) {
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "fileops"))
	var report OrganizeReport

	for _, bucket := range buckets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		extensions, ok := config.OrganizeBuckets[bucket]
		if !ok {
			return report, fmt.Errorf("organize: unknown category %q", bucket)
		}
		wanted := make(map[string]struct{}, len(extensions))
		for _, ext := range extensions {
			wanted[ext] = struct{}{}
		}

		targetDir := filepath.Join(baseDir, bucket)
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			return report, fmt.Errorf("organize: create %s: %w", targetDir, err)
		}

		for _, record := range records {
			if _, ok := wanted[record.ContentType]; !ok {
				continue
			}
			if filepath.Dir(record.Path) == targetDir {
				continue
			}
			dst := filepath.Join(targetDir, record.Name)
			if !fileutil.Exists(record.Path) || fileutil.Exists(dst) {
				report.Skipped++
				logger.Debug("organize skipped",
					logging.String(logging.FieldPath, record.Path),
					logging.String("destination", dst),
				)
				continue
			}
			if err := fileutil.MoveFile(record.Path, dst); err != nil {
				report.Failed++
				logging.WarnWithContext(logger, "organize move failed", "organize_failed",
					logging.String(logging.FieldPath, record.Path),
					logging.String("destination", dst),
					logging.Error(err),
					logging.String(logging.FieldImpact, "file left in place"),
					logging.String(logging.FieldErrorHint, "check permissions on the scanned directory"),
				)
				continue
			}
			record.Path = dst
			report.Moved++
		}
	}

	if report.Moved > 0 || report.Failed > 0 {
		logger.Info("organize complete",
			logging.Int("moved", report.Moved),
			logging.Int("skipped", report.Skipped),
			logging.Int("failed", report.Failed),
		)
	}
	return report, nil
}
