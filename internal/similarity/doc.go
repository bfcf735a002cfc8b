// Package similarity scores pairs of fingerprinted files on a 0–100 scale.
//
// Scorer evaluates an ordered list of named rules; each rule either produces
// a final score or falls through to the next. The order is text, audio,
// video, generic binary, then a universal size/entropy fallback. Audio and
// video are approximated from fuzzy hashes and size/entropy closeness, never
// from decoded media.
package similarity
