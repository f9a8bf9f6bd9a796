package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

func TestSecondLineMatcher_Greedy(t *testing.T) {
	sim := &models.SimilarityMatrix{Values: [][]float64{
		{0.9, 0.8, 0.1},
		{0.85, 0.2, 0.3},
		{0.1, 0.7, 0.6},
	}}

	corr := NewSecondLineMatcher(zap.NewNop()).Match(sim)
	assert.Equal(t, [][]int{
		{1, 0, 0},
		{0, 0, 1},
		{0, 1, 0},
	}, corr.Values)
}

func TestSecondLineMatcher_TiesBreakByRowThenColumn(t *testing.T) {
	sim := &models.SimilarityMatrix{Values: [][]float64{
		{0.5, 0.5},
		{0.5, 0.5},
	}}

	corr := NewSecondLineMatcher(zap.NewNop()).Match(sim)
	assert.Equal(t, [][]int{{1, 0}, {0, 1}}, corr.Values)
}

func TestSecondLineMatcher_Rectangular(t *testing.T) {
	wide := &models.SimilarityMatrix{Values: [][]float64{
		{0.1, 0.9, 0.4, 0.2},
	}}
	corr := NewSecondLineMatcher(zap.NewNop()).Match(wide)
	assert.Equal(t, [][]int{{0, 1, 0, 0}}, corr.Values)

	tall := &models.SimilarityMatrix{Values: [][]float64{{0.2}, {0.3}, {0.1}}}
	corr = NewSecondLineMatcher(zap.NewNop()).Match(tall)
	assert.Equal(t, [][]int{{0}, {1}, {0}}, corr.Values)
}

func TestSecondLineMatcher_OneToOne(t *testing.T) {
	sim := &models.SimilarityMatrix{Values: [][]float64{
		{0.3, 0.9, 0.2, 0.4},
		{0.6, 0.95, 0.1, 0.5},
		{0.0, 0.0, 0.0, 0.0},
	}}

	corr := NewSecondLineMatcher(zap.NewNop()).Match(sim)

	for i, row := range corr.Values {
		sum := 0
		for _, v := range row {
			sum += v
		}
		assert.Equal(t, 1, sum, "row %d", i)
	}
	for j := 0; j < 4; j++ {
		sum := 0
		for i := range corr.Values {
			sum += corr.Values[i][j]
		}
		assert.LessOrEqual(t, sum, 1, "col %d", j)
	}
	assert.Equal(t, 1, corr.Values[1][1])
	assert.Equal(t, 1, corr.Values[0][3])
	assert.Equal(t, 1, corr.Values[2][0])
}

func TestSecondLineMatcher_EmptyMatrix(t *testing.T) {
	corr := NewSecondLineMatcher(zap.NewNop()).Match(&models.SimilarityMatrix{})
	assert.Empty(t, corr.Values)
}

func TestSecondLineMatcher_Pairs(t *testing.T) {
	source, _ := models.NewRelation("s", []string{"id", "name"}, [][]models.Value{{}, {}})
	target, _ := models.NewRelation("t", []string{"full_name", "key"}, [][]models.Value{{}, {}})
	sim := &models.SimilarityMatrix{
		Values: [][]float64{{0.1, 0.8}, {0.7, 0.2}},
		Source: source,
		Target: target,
	}

	corr := NewSecondLineMatcher(zap.NewNop()).Match(sim)
	assert.Equal(t, []models.Correspondence{
		{SourceIndex: 0, SourceAttribute: "id", TargetIndex: 1, TargetAttribute: "key", Similarity: 0.8},
		{SourceIndex: 1, SourceAttribute: "name", TargetIndex: 0, TargetAttribute: "full_name", Similarity: 0.7},
	}, corr.Pairs(sim))
}
