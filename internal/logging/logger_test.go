package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dupescan/internal/config"
	"dupescan/internal/services"
)

func newTestLevel(level slog.Level) *slog.LevelVar {
	lv := new(slog.LevelVar)
	lv.Set(level)
	return lv
}

func TestPrettyHandlerRendersComponentAndSubject(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newPrettyHandler(&buf, newTestLevel(slog.LevelInfo), false))
	logger = NewComponentLogger(logger, "fingerprint")
	logger.Info("file hashed",
		String(FieldScanID, "0f8fad5b-d9cb-469f-a165-70867728950e"),
		String(FieldStage, "extract"),
		String(FieldPath, "/tmp/a b.txt"),
		Int("size", 42),
	)

	line := buf.String()
	for _, want := range []string{
		"INFO",
		"[fingerprint]",
		"scan 0f8fad5b (extract)",
		"– file hashed",
		`path="/tmp/a b.txt"`,
		"size=42",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "component=") || strings.Contains(line, "scan_id=") {
		t.Fatalf("header fields leaked into attributes: %q", line)
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newPrettyHandler(&buf, newTestLevel(slog.LevelWarn), false))
	logger.Info("hidden")
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "WARN") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestJSONHandlerUsesTSAndLowercaseLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, newTestLevel(slog.LevelInfo), false))
	logger.Warn("degraded", String(FieldEventType, "fuzzy_hash_failed"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	ts, ok := payload["ts"].(string)
	if !ok {
		t.Fatalf("expected ts string, got %v", payload["ts"])
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Fatalf("ts not RFC3339: %v", err)
	}
	if payload[FieldEventType] != "fuzzy_hash_failed" {
		t.Fatalf("unexpected event_type %v", payload[FieldEventType])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("expected message in log file, got %q", data)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, newTestLevel(slog.LevelInfo), false))
	WarnWithContext(logger, "fuzzy hash unavailable", "fuzzy_hash_failed",
		String(FieldImpact, "file compared by token overlap only"),
	)

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if payload[FieldEventType] != "fuzzy_hash_failed" {
		t.Fatalf("event_type not injected: %v", payload)
	}
	if payload[FieldErrorHint] == nil {
		t.Fatalf("error_hint not injected: %v", payload)
	}
	if payload[FieldImpact] != "file compared by token overlap only" {
		t.Fatalf("caller impact overwritten: %v", payload[FieldImpact])
	}
}

func TestWithContextAddsScanFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(newJSONHandler(&buf, newTestLevel(slog.LevelInfo), false))

	ctx := services.WithScanID(context.Background(), "scan-1")
	ctx = services.WithStage(ctx, "cluster")
	WithContext(ctx, base).Info("grouped")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if payload[FieldScanID] != "scan-1" || payload[FieldStage] != "cluster" {
		t.Fatalf("context fields missing: %v", payload)
	}
}

func TestRotateLogMovesPreviousDay(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, LogFileName)
	if err := os.WriteFile(active, []byte("x\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	now := time.Now()

	rotated, err := RotateLog(dir, now)
	if err != nil {
		t.Fatalf("RotateLog: %v", err)
	}
	if rotated != "" {
		t.Fatalf("expected same-day log kept, got %s", rotated)
	}

	yesterday := now.AddDate(0, 0, -1)
	if err := os.Chtimes(active, yesterday, yesterday); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	rotated, err = RotateLog(dir, now)
	if err != nil {
		t.Fatalf("RotateLog: %v", err)
	}
	if rotated == "" {
		t.Fatal("expected rotation")
	}
	if matched, _ := filepath.Match(RotatedPattern, filepath.Base(rotated)); !matched {
		t.Fatalf("rotated name %s does not match %s", rotated, RotatedPattern)
	}
	if _, err := os.Stat(active); !os.IsNotExist(err) {
		t.Fatalf("expected active log moved, stat err=%v", err)
	}

	if rotated, err := RotateLog(t.TempDir(), now); err != nil || rotated != "" {
		t.Fatalf("expected no-op for empty dir, got %q %v", rotated, err)
	}
}

func TestPruneLogsRemovesExpiredRotations(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "dupescan-20200101-101010.log")
	fresh := filepath.Join(dir, "dupescan-20990101-101010.log")
	active := filepath.Join(dir, LogFileName)
	other := filepath.Join(dir, "notes.log")
	for _, path := range []string{old, fresh, active, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := time.Now().AddDate(0, 0, -10)
	for _, path := range []string{old, active, other} {
		if err := os.Chtimes(path, stale, stale); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	if pruned := PruneLogs(NewNop(), dir, 3, time.Now()); pruned != 1 {
		t.Fatalf("expected 1 pruned file, got %d", pruned)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected old log removed, stat err=%v", err)
	}
	for _, path := range []string{fresh, active, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s kept: %v", path, err)
		}
	}
}

func TestPruneLogsDisabled(t *testing.T) {
	if got := PruneLogs(NewNop(), t.TempDir(), 0, time.Now()); got != 0 {
		t.Fatalf("expected no pruning, got %d", got)
	}
}
