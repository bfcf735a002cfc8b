// Package cluster groups fingerprinted files into duplicate clusters.
//
// GroupExact partitions records by digest: groups of two or more become exact
// clusters scored 100 and the rest are returned as singletons in input order.
// Clusterer then runs a greedy seed-first pass over the singletons using a
// similarity Scorer. The pass is order dependent: a record joins the first
// earlier seed whose threshold it exceeds and is never reconsidered.
package cluster
