// Package store persists scans and their file fingerprints in SQLite.
//
// The database lives at <data_dir>/dupescan.db and is opened in WAL mode with
// a busy timeout; writes additionally retry on SQLITE_BUSY with exponential
// backoff so that a CLI invocation reading results does not fail while a scan
// is committing. Clusters are not stored: they are recomputed from the file
// rows whenever duplicates are requested.
package store
