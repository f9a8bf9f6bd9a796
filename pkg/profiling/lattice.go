package profiling

import (
	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

// uccSnapshot is the read-only set of minimal UCCs known at the start of a
// lattice level. A level never mutates the snapshot it was handed; newly
// discovered UCCs are merged into a fresh snapshot once the level completes.
type uccSnapshot struct {
	lists []models.AttributeList
}

// with returns a new snapshot containing the receiver's lists plus added.
func (s uccSnapshot) with(added []models.AttributeList) uccSnapshot {
	if len(added) == 0 {
		return s
	}
	lists := make([]models.AttributeList, 0, len(s.lists)+len(added))
	lists = append(lists, s.lists...)
	lists = append(lists, added...)
	return uccSnapshot{lists: lists}
}

// prunes reports whether combined contains a known minimal UCC and therefore
// cannot be minimal itself.
func (s uccSnapshot) prunes(combined models.AttributeList) bool {
	for _, known := range s.lists {
		if combined.SupersetOf(known) {
			return true
		}
	}
	return false
}

func (s uccSnapshot) size() int {
	return len(s.lists)
}

// candidate is one pending join of two frontier indexes.
type candidate struct {
	left, right *PositionListIndex
	attributes  models.AttributeList
}

// levelStats counts what happened while generating one level's candidates.
type levelStats struct {
	pairs      int
	duplicates int
	pruned     int
}

// generateCandidates pairs every two frontier indexes whose attribute lists
// share all but their last index. Combinations produced more than once are
// kept once; combinations containing a known UCC are dropped before any
// intersection is computed.
//
// Indexes are bucketed by prefix first so only joinable pairs are visited.
// Buckets and pairs are enumerated in frontier order, which keeps the output
// deterministic.
func generateCandidates(frontier []*PositionListIndex, known uccSnapshot) ([]candidate, levelStats) {
	var stats levelStats

	bucketOf := make(map[string]int)
	var buckets [][]*PositionListIndex
	for _, pli := range frontier {
		key := pli.attributes.Prefix().Key()
		b, ok := bucketOf[key]
		if !ok {
			b = len(buckets)
			bucketOf[key] = b
			buckets = append(buckets, nil)
		}
		buckets[b] = append(buckets[b], pli)
	}

	seen := make(map[string]struct{})
	var candidates []candidate
	for _, bucket := range buckets {
		for x := 0; x < len(bucket); x++ {
			for y := x + 1; y < len(bucket); y++ {
				p1, p2 := bucket[x], bucket[y]
				if !p1.attributes.SamePrefixAs(p2.attributes) {
					continue
				}
				stats.pairs++

				combined := p1.attributes.Union(p2.attributes)
				if _, dup := seen[combined.Key()]; dup {
					stats.duplicates++
					continue
				}
				seen[combined.Key()] = struct{}{}

				if known.prunes(combined) {
					stats.pruned++
					continue
				}

				candidates = append(candidates, candidate{left: p1, right: p2, attributes: combined})
			}
		}
	}

	return candidates, stats
}
