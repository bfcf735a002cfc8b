// Package preflight provides readiness checks for the directories and tools
// a scan depends on.
//
// The scan command checks its root before taking the scan lock so a typo
// fails fast, and the status command renders RunAll as a health section.
package preflight
