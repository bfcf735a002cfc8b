package fuzzyhash

import (
	"context"
	"errors"
)

// Hasher computes and compares fuzzy hashes.
type Hasher interface {
	// Compute returns the fuzzy hash of the file at path.
	Compute(ctx context.Context, path string) (string, error)
	// Compare returns a similarity score in [0,100] for two fuzzy hashes.
	Compare(ctx context.Context, a, b string) (int, error)
}

// ErrDisabled is returned by Disabled for every call.
var ErrDisabled = errors.New("fuzzy hashing disabled")

// Disabled is a Hasher that never produces a hash.
type Disabled struct{}

func (Disabled) Compute(context.Context, string) (string, error) { return "", ErrDisabled }

func (Disabled) Compare(context.Context, string, string) (int, error) { return 0, ErrDisabled }
