package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const rotatedLayout = "20060102-150405"

// RotatedPattern matches log files set aside by RotateLog.
var RotatedPattern = strings.TrimSuffix(LogFileName, ".log") + "-*.log"

// RotateLog renames the active log in dir when it was last written before
// the calendar day of now, so every day starts a fresh file. It returns the
// new name, or "" when nothing was rotated.
func RotateLog(dir string, now time.Time) (string, error) {
	active := filepath.Join(dir, LogFileName)
	info, err := os.Stat(active)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("stat log: %w", err)
	}
	if !startOfDay(info.ModTime()).Before(startOfDay(now)) {
		return "", nil
	}
	target := filepath.Join(dir, strings.TrimSuffix(LogFileName, ".log")+"-"+info.ModTime().Format(rotatedLayout)+".log")
	if err := os.Rename(active, target); err != nil {
		return "", fmt.Errorf("rotate log: %w", err)
	}
	return target, nil
}

// PruneLogs removes rotated logs in dir last modified more than
// retentionDays before now and returns how many were removed. The active log
// is never touched; retentionDays <= 0 disables pruning.
func PruneLogs(logger *slog.Logger, dir string, retentionDays int, now time.Time) int {
	if retentionDays <= 0 || strings.TrimSpace(dir) == "" {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(dir, RotatedPattern))
	if err != nil {
		return 0
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	pruned := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				Path(path),
				Error(err),
				String(FieldErrorHint, "check file permissions and paths.log_dir ownership"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		pruned++
		if logger != nil {
			logger.Debug("log pruned", Path(path), String(FieldEventType, "log_pruned"))
		}
	}
	return pruned
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
