package textutil

import (
	"sort"
	"strings"
)

// Tokens lowercases text, replaces every character outside [a-z0-9 ] with a
// space, and splits the result on whitespace runs. Empty tokens are never
// returned.
func Tokens(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		default:
			return ' '
		}
	}, strings.ToLower(text))
	return strings.Fields(cleaned)
}

// Normalize returns the canonical form of text: its tokens sorted
// lexicographically and joined with single spaces.
func Normalize(text string) string {
	tokens := Tokens(text)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TokenSet is the set of unique tokens of a document.
type TokenSet map[string]struct{}

// NewTokenSet builds the unique token set of text.
func NewTokenSet(text string) TokenSet {
	tokens := Tokens(text)
	set := make(TokenSet, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// Len returns the number of unique tokens.
func (s TokenSet) Len() int {
	return len(s)
}

// Jaccard returns |A∩B| / |A∪B| in [0,1]. Two empty sets score 0.
func Jaccard(a, b TokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	intersection := 0
	for token := range small {
		if _, ok := large[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
