package profiling

import (
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

// relationFromRows builds a relation from string rows; "NULL" becomes Null.
func relationFromRows(t *testing.T, name string, attrs []string, rows ...[]string) *models.Relation {
	t.Helper()
	values := make([][]models.Value, len(rows))
	for r, row := range rows {
		values[r] = make([]models.Value, len(row))
		for c, cell := range row {
			if cell == "NULL" {
				values[r][c] = models.Null
				continue
			}
			values[r][c] = models.Text(cell)
		}
	}
	rel, err := models.NewRelationFromRows(name, attrs, values)
	require.NoError(t, err)
	return rel
}

// randomRelation builds a relation over a small alphabet so that duplicates
// and multi-column keys are common.
func randomRelation(t *testing.T, rng *rand.Rand, cols, rows, alphabet int) *models.Relation {
	t.Helper()
	attrs := make([]string, cols)
	for i := range attrs {
		attrs[i] = string(rune('a' + i))
	}
	columns := make([][]models.Value, cols)
	for c := range columns {
		columns[c] = make([]models.Value, rows)
		for r := range columns[c] {
			n := rng.Intn(alphabet + 1)
			if n == alphabet {
				columns[c][r] = models.Null
				continue
			}
			columns[c][r] = models.Text(string(rune('0' + n)))
		}
	}
	rel, err := models.NewRelation("random", attrs, columns)
	require.NoError(t, err)
	return rel
}

func rowKey(rel *models.Relation, row int, attrs []int) string {
	var b strings.Builder
	for _, a := range attrs {
		v := rel.Column(a)[row]
		if v.IsNull() {
			b.WriteString("\x00|")
			continue
		}
		b.WriteString(v.String)
		b.WriteString("\x01|")
	}
	return b.String()
}

// directPLI groups rows by their full value tuple over attrs.
func directPLI(rel *models.Relation, attrs models.AttributeList) *PositionListIndex {
	indices := attrs.Indices()
	groups := make(map[string]int)
	var buckets [][]int
	for row := 0; row < rel.RowCount(); row++ {
		k := rowKey(rel, row, indices)
		g, ok := groups[k]
		if !ok {
			g = len(buckets)
			groups[k] = g
			buckets = append(buckets, nil)
		}
		buckets[g] = append(buckets[g], row)
	}
	var clusters [][]int
	for _, b := range buckets {
		if len(b) > 1 {
			clusters = append(clusters, b)
		}
	}
	return newPLI(attrs, clusters, rel.RowCount())
}

// normalizedClusters sorts rows within clusters and clusters by first row.
func normalizedClusters(p *PositionListIndex) [][]int {
	clusters := p.Clusters()
	for _, c := range clusters {
		slices.Sort(c)
	}
	slices.SortFunc(clusters, func(a, b []int) int { return a[0] - b[0] })
	return clusters
}

func isUniqueBrute(rel *models.Relation, attrs []int) bool {
	seen := make(map[string]struct{}, rel.RowCount())
	for row := 0; row < rel.RowCount(); row++ {
		k := rowKey(rel, row, attrs)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

func maskIndices(mask int) []int {
	var out []int
	for i := 0; mask>>i > 0; i++ {
		if mask&(1<<i) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// bruteForceMinimalUCCs enumerates every non-empty combination and keeps the
// unique ones that have no unique proper subset.
func bruteForceMinimalUCCs(rel *models.Relation) map[string]struct{} {
	n := rel.ColumnCount()
	unique := make([]bool, 1<<n)
	for mask := 1; mask < 1<<n; mask++ {
		unique[mask] = isUniqueBrute(rel, maskIndices(mask))
	}
	out := make(map[string]struct{})
	for mask := 1; mask < 1<<n; mask++ {
		if !unique[mask] {
			continue
		}
		minimal := true
		for sub := (mask - 1) & mask; sub > 0; sub = (sub - 1) & mask {
			if unique[sub] {
				minimal = false
				break
			}
		}
		if minimal {
			out[models.NewAttributeList(maskIndices(mask)...).Key()] = struct{}{}
		}
	}
	return out
}

func uccKeys(uccs []models.UCC) []string {
	keys := make([]string, len(uccs))
	for i, u := range uccs {
		keys[i] = u.Attributes.Key()
	}
	return keys
}
