package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIO                = errors.New("io failure")
	ErrDigestUnavailable = errors.New("digest unavailable")
	ErrFuzzyHash         = errors.New("fuzzy hash failure")
	ErrSimilarity        = errors.New("similarity computation failure")
	ErrExternalTool      = errors.New("external tool error")
	ErrConfiguration     = errors.New("configuration error")
	ErrNotFound          = errors.New("not found")
	ErrTimeout           = errors.New("timeout")
	ErrScanInProgress    = errors.New("scan in progress")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err must abort a scan. Only unreadable files and
// missing digest algorithms are fatal; fuzzy hash and similarity failures are
// absorbed into degraded results by their callers.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrIO) || errors.Is(err, ErrDigestUnavailable)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
