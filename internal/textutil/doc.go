// Package textutil provides the text normalization used to fingerprint and
// compare plain-text files.
//
// Text is lowercased, every character outside [a-z0-9 ] becomes a space, and
// the result is split on whitespace runs. Normalize additionally sorts the
// tokens so that two documents differing only in word order, case, or
// punctuation produce the same string and therefore the same digest.
// TokenSet and Jaccard implement set-overlap similarity over the same tokens.
package textutil
