package matching

import (
	"slices"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

// SecondLineMatcher selects attribute correspondences from a similarity matrix.
type SecondLineMatcher interface {
	Match(sim *models.SimilarityMatrix) *models.CorrespondenceMatrix
}

type secondLineMatcher struct {
	logger *zap.Logger
}

// NewSecondLineMatcher creates a greedy one-to-one SecondLineMatcher: pairs
// are taken in descending similarity and each source and target attribute is
// used at most once. Equal similarities are resolved by ascending source, then
// target index.
func NewSecondLineMatcher(logger *zap.Logger) SecondLineMatcher {
	return &secondLineMatcher{
		logger: logger.Named("second-line-matcher"),
	}
}

var _ SecondLineMatcher = (*secondLineMatcher)(nil)

type scoredPair struct {
	row, col   int
	similarity float64
}

func (m *secondLineMatcher) Match(sim *models.SimilarityMatrix) *models.CorrespondenceMatrix {
	rows, cols := sim.Rows(), sim.Cols()

	result := &models.CorrespondenceMatrix{
		Values: make([][]int, rows),
		Source: sim.Source,
		Target: sim.Target,
	}
	for i := range result.Values {
		result.Values[i] = make([]int, cols)
	}
	if rows == 0 || cols == 0 {
		return result
	}

	pairs := make([]scoredPair, 0, rows*cols)
	for i, row := range sim.Values {
		for j, s := range row {
			pairs = append(pairs, scoredPair{row: i, col: j, similarity: s})
		}
	}
	// Stable so row-major order breaks ties.
	slices.SortStableFunc(pairs, func(a, b scoredPair) int {
		switch {
		case a.similarity > b.similarity:
			return -1
		case a.similarity < b.similarity:
			return 1
		default:
			return 0
		}
	})

	usedRows := make([]bool, rows)
	usedCols := make([]bool, cols)
	assigned := 0
	for _, p := range pairs {
		if usedRows[p.row] || usedCols[p.col] {
			continue
		}
		result.Values[p.row][p.col] = 1
		usedRows[p.row] = true
		usedCols[p.col] = true
		assigned++
		if assigned == min(rows, cols) {
			break
		}
	}

	m.logger.Debug("Selected correspondences",
		zap.Int("rows", rows),
		zap.Int("cols", cols),
		zap.Int("assigned", assigned))

	return result
}
