package profiling

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

func TestNewPLIFromColumn(t *testing.T) {
	values := []models.Value{
		models.Text("a"), models.Text("b"), models.Text("a"),
		models.Text("c"), models.Text("b"), models.Text("a"),
	}
	pli := NewPLIFromColumn(models.SingletonAttributeList(0), values)

	assert.False(t, pli.IsUnique())
	assert.Equal(t, [][]int{{0, 2, 5}, {1, 4}}, pli.Clusters())
	assert.Equal(t, 2, pli.ClusterCount())
	assert.Equal(t, 5, pli.ClusteredRowCount())
	assert.Equal(t, 6, pli.RowCount())
	assert.Equal(t, 0, pli.ClusterOf(2))
	assert.Equal(t, 1, pli.ClusterOf(4))
	assert.Equal(t, NoCluster, pli.ClusterOf(3))
}

func TestNewPLIFromColumn_Unique(t *testing.T) {
	values := []models.Value{models.Text("1"), models.Text("2"), models.Text("3")}
	pli := NewPLIFromColumn(models.SingletonAttributeList(1), values)

	assert.True(t, pli.IsUnique())
	assert.Empty(t, pli.Clusters())
	assert.Equal(t, 3, pli.RowCount())
	for row := 0; row < 3; row++ {
		assert.Equal(t, NoCluster, pli.ClusterOf(row))
	}
}

func TestNewPLIFromColumn_NullsShareACluster(t *testing.T) {
	values := []models.Value{models.Null, models.Text(""), models.Null}
	pli := NewPLIFromColumn(models.SingletonAttributeList(0), values)

	assert.Equal(t, [][]int{{0, 2}}, pli.Clusters())
	assert.Equal(t, NoCluster, pli.ClusterOf(1))
}

func TestNewPLIFromColumn_EmptyColumn(t *testing.T) {
	pli := NewPLIFromColumn(models.SingletonAttributeList(0), nil)
	assert.True(t, pli.IsUnique())
	assert.Equal(t, 0, pli.RowCount())
}

func TestPLI_Intersect(t *testing.T) {
	// A = (1, 1, 2), B = (1, 2, 2): each column repeats, the pair does not.
	a := NewPLIFromColumn(models.SingletonAttributeList(0),
		[]models.Value{models.Text("1"), models.Text("1"), models.Text("2")})
	b := NewPLIFromColumn(models.SingletonAttributeList(1),
		[]models.Value{models.Text("1"), models.Text("2"), models.Text("2")})

	require.False(t, a.IsUnique())
	require.False(t, b.IsUnique())

	ab := a.Intersect(b)
	assert.True(t, ab.IsUnique())
	assert.True(t, ab.Attributes().Equal(models.NewAttributeList(0, 1)))
	assert.Equal(t, 3, ab.RowCount())
}

func TestPLI_IntersectKeepsSharedGroups(t *testing.T) {
	rel := relationFromRows(t, "r", []string{"x", "y"},
		[]string{"1", "a"},
		[]string{"1", "a"},
		[]string{"1", "b"},
		[]string{"2", "a"},
		[]string{"1", "a"},
	)
	x := NewPLIFromColumn(models.SingletonAttributeList(0), rel.Column(0))
	y := NewPLIFromColumn(models.SingletonAttributeList(1), rel.Column(1))

	xy := x.Intersect(y)
	assert.Equal(t, [][]int{{0, 1, 4}}, normalizedClusters(xy))
	assert.Equal(t, NoCluster, xy.ClusterOf(2))
	assert.Equal(t, NoCluster, xy.ClusterOf(3))
}

func TestPLI_IntersectDoesNotMutateOperands(t *testing.T) {
	a := NewPLIFromColumn(models.SingletonAttributeList(0),
		[]models.Value{models.Text("1"), models.Text("1"), models.Text("1")})
	b := NewPLIFromColumn(models.SingletonAttributeList(1),
		[]models.Value{models.Text("1"), models.Text("1"), models.Text("2")})

	before := a.Clusters()
	_ = a.Intersect(b)
	assert.Equal(t, before, a.Clusters())
	assert.True(t, a.Attributes().Equal(models.SingletonAttributeList(0)))
}

func TestPLI_IntersectMatchesDirectBuild(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		cols := 2 + rng.Intn(4)
		rows := rng.Intn(25)
		rel := randomRelation(t, rng, cols, rows, 1+rng.Intn(3))

		maskA := 1 + rng.Intn(1<<cols-1)
		maskB := 1 + rng.Intn(1<<cols-1)
		attrsA := models.NewAttributeList(maskIndices(maskA)...)
		attrsB := models.NewAttributeList(maskIndices(maskB)...)

		pa := directPLI(rel, attrsA)
		pb := directPLI(rel, attrsB)
		want := directPLI(rel, attrsA.Union(attrsB))

		ab := pa.Intersect(pb)
		ba := pb.Intersect(pa)

		assert.Equal(t, normalizedClusters(want), normalizedClusters(ab),
			"A=%s B=%s", attrsA, attrsB)
		assert.Equal(t, normalizedClusters(ab), normalizedClusters(ba),
			"A=%s B=%s", attrsA, attrsB)
		assert.True(t, ab.Attributes().Equal(ba.Attributes()))
		assert.Equal(t, want.IsUnique(), ab.IsUnique())

		for row := 0; row < rows; row++ {
			assert.Equal(t, ab.ClusterOf(row) == NoCluster, want.ClusterOf(row) == NoCluster)
		}
	}
}

func TestPLI_ClustersIsACopy(t *testing.T) {
	pli := NewPLIFromColumn(models.SingletonAttributeList(0),
		[]models.Value{models.Text("1"), models.Text("1")})

	c := pli.Clusters()
	c[0][0] = 99
	assert.Equal(t, [][]int{{0, 1}}, pli.Clusters())
}
