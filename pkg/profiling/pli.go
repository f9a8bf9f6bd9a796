package profiling

import (
	"slices"

	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

// NoCluster marks a row that is not part of any stored cluster, i.e. a row
// whose values are already unique for the index's attributes.
const NoCluster = -1

// PositionListIndex is the stripped partition of a relation's rows by the
// values of an attribute combination: each cluster lists the rows that share
// identical values, and only clusters with at least two rows are kept.
//
// A PositionListIndex is immutable once built and may be shared between
// goroutines.
type PositionListIndex struct {
	attributes models.AttributeList
	clusters   [][]int
	inverted   []int // row -> cluster index or NoCluster
}

// NewPLIFromColumn groups the rows of one column by value. Nulls form a single
// group, as any other repeated value would.
func NewPLIFromColumn(attributes models.AttributeList, values []models.Value) *PositionListIndex {
	groups := make(map[models.Value]int, len(values))
	var buckets [][]int
	for row, v := range values {
		idx, ok := groups[v]
		if !ok {
			idx = len(buckets)
			groups[v] = idx
			buckets = append(buckets, nil)
		}
		buckets[idx] = append(buckets[idx], row)
	}

	clusters := make([][]int, 0, len(buckets))
	for _, b := range buckets {
		if len(b) > 1 {
			clusters = append(clusters, b)
		}
	}
	return newPLI(attributes, clusters, len(values))
}

func newPLI(attributes models.AttributeList, clusters [][]int, rowCount int) *PositionListIndex {
	inverted := make([]int, rowCount)
	for i := range inverted {
		inverted[i] = NoCluster
	}
	for c, cluster := range clusters {
		for _, row := range cluster {
			inverted[row] = c
		}
	}
	return &PositionListIndex{
		attributes: attributes,
		clusters:   clusters,
		inverted:   inverted,
	}
}

// Attributes returns the combination the index was built over.
func (p *PositionListIndex) Attributes() models.AttributeList {
	return p.attributes
}

// IsUnique reports whether no two rows agree on all attributes.
func (p *PositionListIndex) IsUnique() bool {
	return len(p.clusters) == 0
}

// RowCount returns the number of rows of the underlying relation.
func (p *PositionListIndex) RowCount() int {
	return len(p.inverted)
}

// ClusterCount returns the number of stored clusters.
func (p *PositionListIndex) ClusterCount() int {
	return len(p.clusters)
}

// ClusteredRowCount returns the number of rows held in clusters.
func (p *PositionListIndex) ClusteredRowCount() int {
	n := 0
	for _, c := range p.clusters {
		n += len(c)
	}
	return n
}

// ClusterOf returns the cluster index of row, or NoCluster.
func (p *PositionListIndex) ClusterOf(row int) int {
	return p.inverted[row]
}

// Clusters returns a deep copy of the stored clusters.
func (p *PositionListIndex) Clusters() [][]int {
	out := make([][]int, len(p.clusters))
	for i, c := range p.clusters {
		out[i] = slices.Clone(c)
	}
	return out
}

// Intersect returns the index of the union of both attribute combinations
// without touching raw values. Each cluster of p is split by the cluster ids
// its rows have in other; rows outside any cluster of other are unique for
// the combined attributes and are dropped, as are resulting singletons.
//
// Cost is linear in the number of clustered rows of p. The clusters of
// p.Intersect(o) and o.Intersect(p) have the same membership.
func (p *PositionListIndex) Intersect(other *PositionListIndex) *PositionListIndex {
	var result [][]int

	// Reused per cluster of p: other-cluster id -> position in groups.
	slot := make(map[int]int)
	var groups [][]int

	for _, cluster := range p.clusters {
		clear(slot)
		groups = groups[:0]

		for _, row := range cluster {
			oc := other.inverted[row]
			if oc == NoCluster {
				continue
			}
			i, ok := slot[oc]
			if !ok {
				i = len(groups)
				slot[oc] = i
				groups = append(groups, nil)
			}
			groups[i] = append(groups[i], row)
		}

		for _, g := range groups {
			if len(g) > 1 {
				result = append(result, g)
			}
		}
	}

	return newPLI(p.attributes.Union(other.attributes), result, len(p.inverted))
}
