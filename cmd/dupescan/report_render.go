package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"dupescan/internal/categorize"
	"dupescan/internal/cluster"
	"dupescan/internal/fileops"
	"dupescan/internal/fingerprint"
	"dupescan/internal/store"
)

func renderScanSummary(out io.Writer, scan store.Scan, result cluster.Result) {
	fmt.Fprintf(out, "Scan:      %s\n", scan.ID)
	fmt.Fprintf(out, "Root:      %s\n", scan.Root)
	fmt.Fprintf(out, "Files:     %d\n", scan.FileCount)
	if d := scan.Duration(); d > 0 {
		fmt.Fprintf(out, "Elapsed:   %s\n", d.Round(time.Millisecond))
	}
	var reclaimable int64
	for _, c := range result.All() {
		reclaimable += c.Size()
	}
	fmt.Fprintf(out, "Clusters:  %d exact, %d near-duplicate\n", len(result.Exact), len(result.Hybrid))
	fmt.Fprintf(out, "Reclaimable: %s\n", formatBytes(reclaimable))
}

func renderClusters(out io.Writer, result cluster.Result) {
	if result.Len() == 0 {
		fmt.Fprintln(out, "No duplicates found")
		return
	}
	headers := []string{"Cluster", "Kind", "ID", "Score", "Size", "Path"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
	rows := make([][]string, 0)
	for _, c := range result.All() {
		for i, member := range c.Members {
			key, kind := "", ""
			if i == 0 {
				key, kind = c.Key, string(c.Kind)
			}
			rows = append(rows, []string{
				key,
				kind,
				strconv.FormatInt(member.ID, 10),
				formatScore(member.SimilarityScore),
				formatBytes(member.Size),
				member.Path,
			})
		}
	}
	fmt.Fprintln(out, renderTable("Duplicates", headers, rows, aligns))
}

func renderCategories(out io.Writer, idx categorize.Index) {
	if len(idx) == 0 {
		return
	}
	rows := make([][]string, 0, len(idx))
	for _, name := range idx.Names() {
		rows = append(rows, []string{displayCategory(name), strconv.Itoa(len(idx[name]))})
	}
	fmt.Fprintln(out, renderTable("Categories", []string{"Category", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))
}

func renderOrganized(out io.Writer, report *fileops.OrganizeReport) {
	if report == nil {
		return
	}
	fmt.Fprintf(out, "Organized: %d moved, %d skipped, %d failed\n", report.Moved, report.Skipped, report.Failed)
}

func renderFiles(out io.Writer, records []*fingerprint.Record) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No files recorded")
		return
	}
	headers := []string{"ID", "Type", "Size", "Entropy", "Category", "Path"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.FormatInt(record.ID, 10),
			displayType(record.ContentType),
			formatBytes(record.Size),
			formatEntropy(record.Entropy),
			displayCategory(record.Category),
			record.Path,
		})
	}
	fmt.Fprintln(out, renderTable("", headers, rows, aligns))
}
