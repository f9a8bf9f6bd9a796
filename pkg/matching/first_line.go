// Package matching derives attribute correspondences between two relations:
// a first-line matcher scores every attribute pair and a second-line matcher
// turns the scores into a one-to-one assignment.
package matching

import (
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
	"github.com/ekaya-inc/ekaya-profiler/pkg/similarity"
)

// FirstLineConfig weights the header and value evidence of a pair.
type FirstLineConfig struct {
	HeaderWeight       float64
	ValueWeight        float64
	TokenSize          int
	SingularizeHeaders bool
}

// DefaultFirstLineConfig scores pairs as 0.6 header + 0.4 value similarity
// over padded trigrams.
func DefaultFirstLineConfig() FirstLineConfig {
	return FirstLineConfig{
		HeaderWeight: 0.6,
		ValueWeight:  0.4,
		TokenSize:    3,
	}
}

// FirstLineMatcher builds the similarity matrix of two relations.
type FirstLineMatcher interface {
	Match(source, target *models.Relation) *models.SimilarityMatrix
}

type firstLineMatcher struct {
	config  FirstLineConfig
	measure similarity.Measure
	logger  *zap.Logger
}

// NewFirstLineMatcher creates a FirstLineMatcher comparing lower-cased
// headers and space-joined column values with set-semantics Jaccard.
func NewFirstLineMatcher(config FirstLineConfig, logger *zap.Logger) FirstLineMatcher {
	return &firstLineMatcher{
		config:  config,
		measure: similarity.NewJaccard(similarity.NewTokenizer(config.TokenSize, true), false),
		logger:  logger.Named("first-line-matcher"),
	}
}

var _ FirstLineMatcher = (*firstLineMatcher)(nil)

func (m *firstLineMatcher) Match(source, target *models.Relation) *models.SimilarityMatrix {
	matrix := models.NewSimilarityMatrix(source, target)

	sourceHeaders, sourceValues := m.profile(source)
	targetHeaders, targetValues := m.profile(target)

	for i := range sourceHeaders {
		for j := range targetHeaders {
			headerSim := m.measure.Calculate(sourceHeaders[i], targetHeaders[j])
			valueSim := m.measure.Calculate(sourceValues[i], targetValues[j])
			matrix.Values[i][j] = m.config.HeaderWeight*headerSim + m.config.ValueWeight*valueSim
		}
	}

	m.logger.Debug("Computed similarity matrix",
		zap.String("source", source.Name),
		zap.String("target", target.Name),
		zap.Int("rows", matrix.Rows()),
		zap.Int("cols", matrix.Cols()))

	return matrix
}

// profile returns the normalized header and joined values of every column.
func (m *firstLineMatcher) profile(rel *models.Relation) (headers, values []string) {
	headers = make([]string, rel.ColumnCount())
	values = make([]string, rel.ColumnCount())
	for i, attr := range rel.Attributes {
		header := strings.ToLower(attr)
		if m.config.SingularizeHeaders {
			header = inflection.Singular(header)
		}
		headers[i] = header
		values[i] = strings.ToLower(joinValues(rel.Column(i)))
	}
	return headers, values
}

// joinValues concatenates a column with single spaces; nulls contribute an
// empty string.
func joinValues(col []models.Value) string {
	var b strings.Builder
	for i, v := range col {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(v.String)
	}
	return b.String()
}
