package cluster

import "dupescan/internal/fingerprint"

// GroupExact partitions records by Hash. Groups of two or more become exact
// clusters, keyed by the digest and ordered by first appearance, with every
// member scored ExactScore. Remaining records are returned in input order.
func GroupExact(records []*fingerprint.Record) ([]Cluster, []*fingerprint.Record) {
	groups := make(map[string][]*fingerprint.Record, len(records))
	order := make([]string, 0, len(records))
	for _, record := range records {
		if _, seen := groups[record.Hash]; !seen {
			order = append(order, record.Hash)
		}
		groups[record.Hash] = append(groups[record.Hash], record)
	}

	var exact []Cluster
	for _, hash := range order {
		members := groups[hash]
		if len(members) < 2 {
			continue
		}
		for _, member := range members {
			member.SimilarityScore = ExactScore
		}
		exact = append(exact, Cluster{Key: hash, Kind: KindExact, Members: members})
	}

	singletons := make([]*fingerprint.Record, 0, len(records))
	for _, record := range records {
		if len(groups[record.Hash]) == 1 {
			singletons = append(singletons, record)
		}
	}
	return exact, singletons
}
