package fingerprint

import (
	"path/filepath"
	"strings"
)

// UnknownType is the content type of names without an extension dot.
const UnknownType = "unknown"

// TextType is the content type whose digest is computed over normalized text.
const TextType = "txt"

// Record is the fingerprint of one scanned file.
type Record struct {
	ID              int64   `json:"id,omitempty"`
	Name            string  `json:"name"`
	Path            string  `json:"path"`
	Size            int64   `json:"size"`
	ContentType     string  `json:"content_type"`
	Hash            string  `json:"hash"`
	FuzzyHash       string  `json:"fuzzy_hash,omitempty"`
	Entropy         float64 `json:"entropy"`
	SimilarityScore float64 `json:"similarity_score"`
	Category        string  `json:"category,omitempty"`
}

// IsText reports whether the record is a plain-text file.
func (r Record) IsText() bool {
	return r.ContentType == TextType
}

// ContentType returns the lowercase text after the last '.' of name's base,
// or UnknownType when there is none. A trailing dot yields "".
func ContentType(name string) string {
	base := filepath.Base(name)
	idx := strings.LastIndexByte(base, '.')
	if idx < 0 {
		return UnknownType
	}
	return strings.ToLower(base[idx+1:])
}
