// Package main hosts the dupescan CLI entrypoint and command graph.
//
// The Cobra-based command tree loads configuration once, builds the shared
// logger, and hands off to the internal scan, store, and fileops packages.
// Commands render either human tables or indented JSON on stdout; logs go to
// stderr and the configured log directory.
package main
