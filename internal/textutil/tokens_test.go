package textutil

import (
	"math"
	"reflect"
	"testing"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"punctuation only", "!!! ,,, ...", []string{}},
		{"mixed case", "Hello World", []string{"hello", "world"}},
		{"punctuation becomes space", "WORLD, hello!!", []string{"world", "hello"}},
		{"tabs and newlines", "one\ttwo\nthree", []string{"one", "two", "three"}},
		{"digits kept", "v2 release-10", []string{"v2", "release", "10"}},
		{"non ascii dropped", "café naïve", []string{"caf", "na", "ve"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokens(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tokens(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsOrderAndCaseInvariant(t *testing.T) {
	a := Normalize("hello world")
	b := Normalize("WORLD, hello!!")
	if a != b {
		t.Fatalf("expected identical normal forms, got %q and %q", a, b)
	}
	if a != "hello world" {
		t.Fatalf("unexpected normal form %q", a)
	}
	if got := Normalize("  \n\t "); got != "" {
		t.Fatalf("expected empty normal form, got %q", got)
	}
}

func TestNormalizeKeepsDuplicateTokens(t *testing.T) {
	if got := Normalize("b a b"); got != "a b b" {
		t.Fatalf("Normalize = %q, want %q", got, "a b b")
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"both empty", "", "", 0},
		{"one empty", "alpha", "", 0},
		{"identical sets", "hello world", "WORLD, hello!!", 1},
		{"duplicates ignored", "a a a b", "a b", 1},
		{"disjoint", "apple banana", "cherry date", 0},
		{"partial", "a b c", "b c d", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(NewTokenSet(tt.a), NewTokenSet(tt.b))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestJaccardSymmetric(t *testing.T) {
	a := NewTokenSet("the quick brown fox")
	b := NewTokenSet("the slow brown cat jumps")
	if Jaccard(a, b) != Jaccard(b, a) {
		t.Fatal("expected symmetric Jaccard")
	}
}
