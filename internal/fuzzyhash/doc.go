// Package fuzzyhash adapts context-triggered piecewise hashing ("fuzzy"
// hashing) for the scanner.
//
// Hasher is the narrow port consumed by fingerprint extraction and similarity
// scoring. CLI implements it by shelling out to the ssdeep utility with a
// per-call timeout; Disabled is used when fuzzy hashing is turned off. Every
// failure is returned wrapped in services.ErrFuzzyHash so callers can degrade
// to an empty hash or a zero score.
package fuzzyhash
