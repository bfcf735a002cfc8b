// Package scan orchestrates a full duplicate scan.
//
// Scanner.Run takes the advisory scan lock, enumerates the directory tree,
// fingerprints every file on a bounded worker pool, optionally organizes and
// categorizes the files, runs exact and near-duplicate detection, and
// persists the scan. Scanner.Duplicates recomputes clusters for a stored scan.
// The context carries the scan ID and current stage so every log line emitted
// downstream is tagged with them.
package scan
