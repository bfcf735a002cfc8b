// Package services defines shared utilities consumed by the scan pipeline and
// its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp scan IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that separate fatal scan
//     failures (unreadable files, missing digest algorithms) from degraded
//     results (fuzzy hash or similarity failures).
//
// Use these helpers when wiring new pipeline code so error handling and
// observability stay uniform across the scanner.
package services
