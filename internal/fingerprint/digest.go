package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/blake3"

	"dupescan/internal/services"
)

// Supported digest algorithm names.
const (
	DigestSHA256 = "sha256"
	DigestBLAKE3 = "blake3"
)

// NewDigest returns a fresh 256-bit digest for the named algorithm.
func NewDigest(name string) (hash.Hash, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DigestSHA256:
		return sha256.New(), nil
	case DigestBLAKE3:
		return blake3.New(), nil
	default:
		return nil, services.Wrap(services.ErrDigestUnavailable, "fingerprint", "digest",
			fmt.Sprintf("unsupported algorithm %q", name), nil)
	}
}
