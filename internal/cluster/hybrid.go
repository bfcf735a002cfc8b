package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"dupescan/internal/fingerprint"
	"dupescan/internal/logging"
)

// Scorer is the similarity contract the clusterer needs.
type Scorer interface {
	Score(ctx context.Context, a, b *fingerprint.Record) float64
	Qualifies(seed *fingerprint.Record, score float64) bool
}

// Clusterer performs greedy near-duplicate clustering.
type Clusterer struct {
	mu     sync.Mutex
	scorer Scorer
	logger *slog.Logger
}

// NewClusterer returns a Clusterer scoring pairs with scorer.
func NewClusterer(scorer Scorer, logger *slog.Logger) *Clusterer {
	return &Clusterer{
		scorer: scorer,
		logger: logging.NewComponentLogger(logger, "cluster"),
	}
}

// Cluster groups singletons. Each unvisited record seeds a cluster and
// absorbs every later unvisited record whose score exceeds the seed's
// threshold. Members take their pair score; the seed takes the mean of all
// members' scores, its own prior score included. Single-member clusters are
// dropped. The lock is held for the whole pass.
func (c *Clusterer) Cluster(ctx context.Context, singletons []*fingerprint.Record) []Cluster {
	c.mu.Lock()
	defer c.mu.Unlock()

	visited := make([]bool, len(singletons))
	keys := make(map[string]bool)
	var clusters []Cluster
	for i, seed := range singletons {
		if visited[i] {
			continue
		}
		visited[i] = true
		members := []*fingerprint.Record{seed}
		for j := i + 1; j < len(singletons); j++ {
			if visited[j] {
				continue
			}
			candidate := singletons[j]
			score := c.scorer.Score(ctx, seed, candidate)
			if !c.scorer.Qualifies(seed, score) {
				continue
			}
			candidate.SimilarityScore = score
			visited[j] = true
			members = append(members, candidate)
		}
		if len(members) < 2 {
			continue
		}

		var total float64
		for _, member := range members {
			total += member.SimilarityScore
		}
		seed.SimilarityScore = total / float64(len(members))

		clusters = append(clusters, Cluster{
			Key:     uniqueKey(keys, hybridKey(seed)),
			Kind:    KindHybrid,
			Members: members,
		})
		c.logger.Debug("hybrid cluster formed",
			logging.String("seed", seed.Path),
			logging.Int("members", len(members)),
			logging.Float64("seed_score", seed.SimilarityScore),
		)
	}
	return clusters
}

func hybridKey(seed *fingerprint.Record) string {
	return "hybrid-" + seed.Name + "-" + strconv.FormatInt(seed.Size, 10)
}

// uniqueKey suffixes a taken key with -2, -3, ... until it is unused, so
// seeds sharing a name and size in different directories do not overwrite
// each other, and a suffixed key never shadows another seed's plain key.
func uniqueKey(used map[string]bool, key string) string {
	candidate := key
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", key, n)
	}
	used[candidate] = true
	return candidate
}
