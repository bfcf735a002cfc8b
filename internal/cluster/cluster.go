package cluster

import (
	"context"
	"log/slog"

	"dupescan/internal/fingerprint"
	"dupescan/internal/logging"
)

// Kind distinguishes exact digest matches from heuristic matches.
type Kind string

const (
	KindExact  Kind = "exact"
	KindHybrid Kind = "hybrid"
)

// ExactScore is the similarity assigned to every member of an exact cluster.
const ExactScore = 100.0

// Cluster is an ordered, non-empty group of records.
type Cluster struct {
	Key     string                `json:"key"`
	Kind    Kind                  `json:"kind"`
	Members []*fingerprint.Record `json:"members"`
}

// Size returns the number of bytes reclaimable by keeping only one member.
func (c Cluster) Size() int64 {
	var total int64
	for i, member := range c.Members {
		if i == 0 {
			continue
		}
		total += member.Size
	}
	return total
}

// Result holds exact clusters in first-appearance order followed by hybrid
// clusters in seed order.
type Result struct {
	Exact  []Cluster `json:"exact"`
	Hybrid []Cluster `json:"hybrid"`
}

// All returns exact then hybrid clusters.
func (r Result) All() []Cluster {
	out := make([]Cluster, 0, len(r.Exact)+len(r.Hybrid))
	out = append(out, r.Exact...)
	return append(out, r.Hybrid...)
}

// Map returns cluster key to ordered members.
func (r Result) Map() map[string][]*fingerprint.Record {
	out := make(map[string][]*fingerprint.Record, len(r.Exact)+len(r.Hybrid))
	for _, c := range r.All() {
		out[c.Key] = c.Members
	}
	return out
}

// Len returns the total number of clusters.
func (r Result) Len() int {
	return len(r.Exact) + len(r.Hybrid)
}

// Detect runs exact grouping then near-duplicate clustering over records.
// Records are mutated in place: SimilarityScore is set for clustered members.
func Detect(ctx context.Context, records []*fingerprint.Record, scorer Scorer, logger *slog.Logger) Result {
	exact, singletons := GroupExact(records)
	hybrid := NewClusterer(scorer, logger).Cluster(ctx, singletons)
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "cluster")).Info("duplicate detection complete",
		logging.Int("records", len(records)),
		logging.Int("exact_clusters", len(exact)),
		logging.Int("hybrid_clusters", len(hybrid)),
	)
	return Result{Exact: exact, Hybrid: hybrid}
}
