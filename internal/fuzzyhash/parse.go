package fuzzyhash

import (
	"strconv"
	"strings"
)

// ParseComputeOutput extracts the hash from `ssdeep -b` output. The hash is
// taken from the first line containing a comma, as the field after the first
// comma ("filename,hash"). ssdeep itself prints `hash,"filename"`, so when
// the leading field is the one shaped like blocksize:chunk:chunk it is used
// instead. The "ssdeep,1.1--blocksize:hash:hash,filename" banner is skipped.
func ParseComputeOutput(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, ",") || strings.HasPrefix(line, "ssdeep,") {
			continue
		}
		fields := strings.Split(line, ",")
		hash := strings.TrimSpace(fields[1])
		if lead := strings.TrimSpace(fields[0]); !looksLikeHash(hash) && looksLikeHash(lead) {
			hash = lead
		}
		if hash == "" {
			continue
		}
		return hash, true
	}
	return "", false
}

// looksLikeHash reports whether s has the blocksize:chunk:chunk shape.
func looksLikeHash(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" {
		return false
	}
	_, err := strconv.Atoi(parts[0])
	return err == nil
}

// ParseCompareOutput extracts the score from `ssdeep -v` output: the first
// line with exactly three colon-separated fields (ignoring trailing empty ones) whose third field parses as
// an integer, after stripping non-digits if needed. Scores are clamped to
// [0,100].
func ParseCompareOutput(output string) (int, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, ":") {
			continue
		}
		fields := dropTrailingEmpty(strings.Split(line, ":"))
		if len(fields) != 3 {
			continue
		}
		raw := strings.TrimSpace(fields[2])
		score, err := strconv.Atoi(raw)
		if err != nil {
			digits := strings.Map(func(r rune) rune {
				if r >= '0' && r <= '9' {
					return r
				}
				return -1
			}, raw)
			if digits == "" {
				continue
			}
			score, err = strconv.Atoi(digits)
			if err != nil {
				continue
			}
		}
		return clampScore(score), true
	}
	return 0, false
}

// dropTrailingEmpty removes empty fields from the end, so "a:b:95:" still
// splits into three fields.
func dropTrailingEmpty(fields []string) []string {
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

func clampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
