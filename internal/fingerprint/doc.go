// Package fingerprint extracts per-file fingerprints for duplicate detection.
//
// A Record carries a 256-bit digest, Shannon entropy, optional fuzzy hash and
// the content type derived from the file extension. Plain-text files (".txt")
// are digested over their normalized, token-sorted form so that documents
// differing only in word order, case, or punctuation hash identically; every
// other file is streamed through the digest in bounded chunks.
//
// Primary entry points:
//   - Extractor.Extract: fingerprints one file
//   - Extractor.ExtractAll: fingerprints a batch on a bounded worker pool,
//     preserving input order and failing fast on unreadable files
package fingerprint
