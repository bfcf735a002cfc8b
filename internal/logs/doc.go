// Package logs reads back the dupescan log file: the last N lines, then
// optionally new lines as they are appended. Filters select lines by level
// or free text without parsing the console or JSON format fully.
package logs
