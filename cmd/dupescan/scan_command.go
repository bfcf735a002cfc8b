package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"dupescan/internal/config"
	"dupescan/internal/preflight"
	"dupescan/internal/scan"
	"dupescan/internal/store"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON   bool
		workers  int
		noFuzzy  bool
		organize bool
	)

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Fingerprint a directory tree and report duplicates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers < 0 {
				return fmt.Errorf("--workers must be positive, got %d", workers)
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				local := *cfg
				if workers > 0 {
					local.Scan.Workers = workers
				}
				if noFuzzy {
					local.FuzzyHash.Enabled = false
				}
				if organize {
					local.Categorization.Organize = true
				}
				if err := runPreflight(&local, args[0]); err != nil {
					return err
				}

				report, err := scan.New(&local, st, logger).Run(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, report)
				}
				out := cmd.OutOrStdout()
				renderScanSummary(out, report.Scan, report.Clusters)
				renderOrganized(out, report.Organized)
				renderCategories(out, report.Categories)
				renderClusters(out, report.Clusters)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the scan report as JSON")
	cmd.Flags().IntVar(&workers, "workers", 0, "Extraction workers (default from config)")
	cmd.Flags().BoolVar(&noFuzzy, "no-fuzzy", false, "Skip fuzzy hashing for this scan")
	cmd.Flags().BoolVar(&organize, "organize", false, "Move files into category folders under the scan root")
	return cmd
}

// runPreflight fails fast when the scan root or a required directory is
// unusable.
func runPreflight(cfg *config.Config, root string) error {
	results := append([]preflight.Result{preflight.CheckScanRoot(root)}, preflight.RunAll(cfg)...)
	failed := preflight.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	details := make([]string, 0, len(failed))
	for _, r := range failed {
		details = append(details, r.Name+": "+r.Detail)
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
}

func newDuplicatesCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON bool
		scanID string
	)

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Recompute duplicate clusters for a stored scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				report, err := scan.New(cfg, st, logger).Duplicates(cmd.Context(), scanID)
				if err != nil {
					return scanLookupError(err, scanID)
				}
				if asJSON {
					return writeJSON(cmd, report)
				}
				out := cmd.OutOrStdout()
				renderScanSummary(out, report.Scan, report.Clusters)
				renderClusters(out, report.Clusters)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit clusters as JSON")
	cmd.Flags().StringVar(&scanID, "scan", "", "Scan ID (default latest)")
	return cmd
}
