package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dupescan/internal/config"
	"dupescan/internal/fingerprint"
	"dupescan/internal/store"
)

type filesOutput struct {
	Scan  store.Scan            `json:"scan"`
	Files []*fingerprint.Record `json:"files"`
}

func newFilesCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON bool
		scanID string
	)

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List fingerprinted files of a stored scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store, _ *slog.Logger) error {
				scan, err := resolveScan(cmd.Context(), st, scanID)
				if err != nil {
					return err
				}
				records, err := st.Files(cmd.Context(), scan.ID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, filesOutput{Scan: *scan, Files: records})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Scan %s (%s)\n", scan.ID, scan.Root)
				renderFiles(out, records)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit files as JSON")
	cmd.Flags().StringVar(&scanID, "scan", "", "Scan ID (default latest)")
	return cmd
}

func newScansCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "scans",
		Short: "List stored scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store, _ *slog.Logger) error {
				scans, err := st.Scans(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					if scans == nil {
						scans = []store.Scan{}
					}
					return writeJSON(cmd, scans)
				}
				out := cmd.OutOrStdout()
				if len(scans) == 0 {
					fmt.Fprintln(out, "No scans recorded")
					return nil
				}
				rows := make([][]string, 0, len(scans))
				for _, s := range scans {
					rows = append(rows, []string{
						s.ID,
						s.StartedAt.Local().Format(time.DateTime),
						strconv.Itoa(s.FileCount),
						s.Root,
					})
				}
				fmt.Fprintln(out, renderTable("", []string{"ID", "Started", "Files", "Root"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit scans as JSON")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum scans to list (0 for all)")
	return cmd
}

func resolveScan(ctx context.Context, st *store.Store, scanID string) (*store.Scan, error) {
	var (
		scan *store.Scan
		err  error
	)
	if scanID == "" {
		scan, err = st.LatestScan(ctx)
	} else {
		scan, err = st.Scan(ctx, scanID)
	}
	if err != nil {
		return nil, scanLookupError(err, scanID)
	}
	return scan, nil
}
