package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"dupescan/internal/config"
	"dupescan/internal/deps"
	"dupescan/internal/preflight"
	"dupescan/internal/services"
	"dupescan/internal/store"
)

type statusOutput struct {
	ConfigPath   string             `json:"config_path"`
	ConfigExists bool               `json:"config_exists"`
	DataDir      string             `json:"data_dir"`
	StorePath    string             `json:"store_path"`
	FuzzyHash    bool               `json:"fuzzy_hash_enabled"`
	Directories  []preflight.Result `json:"directories"`
	Dependencies []deps.Status      `json:"dependencies"`
	ScanRunning  bool               `json:"scan_running"`
	LatestScan   *store.Scan        `json:"latest_scan,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration, dependency, and index status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store, _ *slog.Logger) error {
				directories := []preflight.Result{
					preflight.CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
					preflight.CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
				}
				status := statusOutput{
					ConfigPath:   ctx.configPath,
					ConfigExists: ctx.configExists,
					DataDir:      cfg.Paths.DataDir,
					StorePath:    st.Path(),
					FuzzyHash:    cfg.FuzzyHash.Enabled,
					Directories:  directories,
					Dependencies: deps.CheckBinaries(deps.Requirements(cfg)),
				}
				running, err := scanRunning(cfg)
				if err != nil {
					return err
				}
				status.ScanRunning = running

				latest, err := st.LatestScan(cmd.Context())
				switch {
				case err == nil:
					status.LatestScan = latest
				case errors.Is(err, services.ErrNotFound):
				default:
					return err
				}

				if asJSON {
					if status.Dependencies == nil {
						status.Dependencies = []deps.Status{}
					}
					return writeJSON(cmd, status)
				}
				out := cmd.OutOrStdout()
				for _, line := range statusLines(status, shouldColorize(out)) {
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit status as JSON")
	return cmd
}

// scanRunning reports whether another process holds the scan lock.
func scanRunning(cfg *config.Config) (bool, error) {
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("probe scan lock: %w", err)
	}
	if !locked {
		return true, nil
	}
	return false, lock.Unlock()
}

func statusLines(status statusOutput, colorize bool) []string {
	lines := renderSectionHeader("Configuration", colorize)
	configMessage := status.ConfigPath
	configKind := statusOK
	if !status.ConfigExists {
		configMessage += " (not found; defaults in use)"
		configKind = statusInfo
	}
	lines = append(lines,
		renderStatusLine("Config", configKind, configMessage, colorize),
		renderStatusLine("Data dir", statusInfo, status.DataDir, colorize),
		renderStatusLine("Index", statusInfo, status.StorePath, colorize),
		renderStatusLine("Fuzzy hashing", statusInfo, yesNo(status.FuzzyHash), colorize),
	)

	for _, dir := range status.Directories {
		kind := statusOK
		if !dir.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(dir.Name, kind, dir.Detail, colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
	lines = append(lines, dependencyLines(status.Dependencies, colorize)...)

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Index", colorize)...)
	if status.ScanRunning {
		lines = append(lines, renderStatusLine("Scan lock", statusWarn, "scan in progress", colorize))
	} else {
		lines = append(lines, renderStatusLine("Scan lock", statusOK, "idle", colorize))
	}
	if status.LatestScan == nil {
		lines = append(lines, renderStatusLine("Latest scan", statusInfo, "none recorded", colorize))
		return lines
	}
	latest := status.LatestScan
	lines = append(lines, renderStatusLine("Latest scan", statusOK,
		fmt.Sprintf("%s (%d files, %s)", latest.ID, latest.FileCount, latest.StartedAt.Local().Format(time.DateTime)), colorize))
	lines = append(lines, renderStatusLine("Root", statusInfo, latest.Root, colorize))
	return lines
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	if len(statuses) == 0 {
		return []string{renderStatusLine("Summary", statusInfo, "no external tools required", colorize)}
	}
	lines := make([]string, 0, len(statuses)+1)
	missing := make([]string, 0)
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Path != "" {
				message = fmt.Sprintf("Ready (%s)", dep.Path)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
		missing = append(missing, dep.Name)
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing", statusWarn, strings.Join(missing, ", "), colorize))
	}
	return lines
}
