package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dupescan/internal/config"
	"dupescan/internal/fileops"
	"dupescan/internal/fingerprint"
	"dupescan/internal/store"
)

// removePlan is the --json output of a dry run.
type removePlan struct {
	DryRun bool                  `json:"dry_run"`
	Files  []*fingerprint.Record `json:"files"`
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	var (
		confirm bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "remove <id>...",
		Short: "Delete files by ID from disk and the index",
		Long: "Delete files by ID from disk and from the index. Without --yes the\n" +
			"command only lists the files that would be removed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store, logger *slog.Logger) error {
				out := cmd.OutOrStdout()
				if !confirm {
					records, err := st.FilesByID(cmd.Context(), ids)
					if err != nil {
						return err
					}
					if asJSON {
						if records == nil {
							records = []*fingerprint.Record{}
						}
						return writeJSON(cmd, removePlan{DryRun: true, Files: records})
					}
					if len(records) == 0 {
						fmt.Fprintln(out, "No matching files")
						return nil
					}
					fmt.Fprintln(out, "Would remove:")
					renderFiles(out, records)
					fmt.Fprintln(out, "Re-run with --yes to delete these files")
					return nil
				}

				report, err := fileops.Remove(cmd.Context(), st, ids, logger)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, report)
				}
				for _, path := range report.Paths {
					fmt.Fprintf(out, "Removed %s\n", path)
				}
				fmt.Fprintf(out, "Removed %d of %d (missing %d, failed %d, unknown %d)\n",
					report.Removed, report.Requested, report.Missing, report.Failed, report.Unknown)
				if report.Failed > 0 {
					return fmt.Errorf("%d file(s) could not be removed; see logs", report.Failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "Delete without the dry-run listing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the dry-run listing or removal report as JSON")
	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	seen := make(map[int64]struct{}, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid file id %q", arg)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
