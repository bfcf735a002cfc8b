package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"dupescan/internal/deps"
	"dupescan/internal/testsupport"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Index", statusError, "unreadable", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Index:", "[ERROR] unreadable")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Scan lock", statusOK, "idle", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "ssdeep", Available: true, Path: "/usr/bin/ssdeep"},
		{Name: "hasher", Available: false},
		{Name: "extra", Available: false, Optional: true, Detail: `binary "extra" not found`},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[OK] Ready (/usr/bin/ssdeep)") {
		t.Fatalf("expected ready line first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] not available") {
		t.Fatalf("expected required dependency error, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN]") {
		t.Fatalf("expected optional dependency warning, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "hasher, extra") {
		t.Fatalf("expected missing summary, got %q", lines[3])
	}

	empty := dependencyLines(nil, false)
	if len(empty) != 1 || !strings.Contains(empty[0], "no external tools required") {
		t.Fatalf("unexpected lines for no requirements: %q", empty)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestDisplayCategory(t *testing.T) {
	tests := map[string]string{
		"":             "-",
		"photos":       "Photos",
		"tax_receipts": "Tax Receipts",
		"old-MUSIC":    "Old Music",
	}
	for in, want := range tests {
		if got := displayCategory(in); got != want {
			t.Fatalf("displayCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Configuration ==")
	requireContains(t, out, env.configPath)
	requireContains(t, out, "no external tools required")
	requireContains(t, out, "[OK] idle")
	requireContains(t, out, "none recorded")

	env.seedLibrary(t)
	if _, _, err := runCLI(t, []string{"scan", env.scanRoot}, env.configPath); err != nil {
		t.Fatalf("scan: %v", err)
	}
	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status after scan: %v", err)
	}
	requireContains(t, out, "3 files")
}

func TestStatusWarnsOnMissingFuzzyHasher(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.FuzzyHash.Enabled = true
	env.cfg.FuzzyHash.Binary = "dupescan-missing-ssdeep"
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "[WARN]")
	requireContains(t, out, "dupescan-missing-ssdeep")
}

func TestStatusJSONWithStubbedHasher(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var status statusOutput
	decodeJSON(t, out, &status)
	if !status.FuzzyHash || len(status.Dependencies) != 1 || !status.Dependencies[0].Available {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.ScanRunning || status.LatestScan != nil {
		t.Fatalf("expected idle empty index, got %+v", status)
	}
}

func TestLogsCommandShowsScanLines(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedLibrary(t)
	if _, _, err := runCLI(t, []string{"scan", env.scanRoot}, env.configPath); err != nil {
		t.Fatalf("scan: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "--grep", "scan complete"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "scan complete")
}
