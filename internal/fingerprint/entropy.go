package fingerprint

import "math"

// histogram counts byte values; it is an io.Writer so it can share a single
// read pass with the digest.
type histogram struct {
	counts [256]int64
	total  int64
}

func (h *histogram) Write(p []byte) (int, error) {
	for _, b := range p {
		h.counts[b]++
	}
	h.total += int64(len(p))
	return len(p), nil
}

// Entropy returns the Shannon entropy in bits per byte, 0 for no data.
func (h *histogram) Entropy() float64 {
	if h.total == 0 {
		return 0
	}
	total := float64(h.total)
	var entropy float64
	for _, count := range h.counts {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// Entropy returns the Shannon entropy of data in bits per byte.
func Entropy(data []byte) float64 {
	var h histogram
	_, _ = h.Write(data)
	return h.Entropy()
}
