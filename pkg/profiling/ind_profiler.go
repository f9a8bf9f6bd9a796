package profiling

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

// INDProfiler discovers unary inclusion dependencies among relations.
type INDProfiler interface {
	// Profile returns every unary IND dep ⊆ ref where dep and ref are distinct
	// columns of the given relations. Nulls take part in containment like any
	// other value; a column without rows is contained in every column.
	// Requesting n-ary discovery fails with apperrors.ErrUnsupportedOperation.
	Profile(ctx context.Context, relations []*models.Relation, nary bool) ([]models.IND, error)
}

type indProfiler struct {
	logger *zap.Logger
}

// NewINDProfiler creates an INDProfiler.
func NewINDProfiler(logger *zap.Logger) INDProfiler {
	return &indProfiler{
		logger: logger.Named("ind-profiler"),
	}
}

var _ INDProfiler = (*indProfiler)(nil)

type valueSet map[models.Value]struct{}

func (s valueSet) containedIn(other valueSet) bool {
	if len(s) > len(other) {
		return false
	}
	for v := range s {
		if _, ok := other[v]; !ok {
			return false
		}
	}
	return true
}

func (p *indProfiler) Profile(ctx context.Context, relations []*models.Relation, nary bool) ([]models.IND, error) {
	if nary {
		return nil, fmt.Errorf("n-ary IND discovery: %w", apperrors.ErrUnsupportedOperation)
	}

	sets := make([][]valueSet, len(relations))
	for r, rel := range relations {
		if err := checkRelation(rel); err != nil {
			return nil, err
		}
		sets[r] = make([]valueSet, rel.ColumnCount())
		for c := range sets[r] {
			set := make(valueSet)
			for _, v := range rel.Column(c) {
				set[v] = struct{}{}
			}
			sets[r][c] = set
		}
	}

	inds := []models.IND{}
	for r, dep := range relations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ind discovery aborted: %w", err)
		}
		for s, ref := range relations {
			for i := range sets[r] {
				for j := range sets[s] {
					if r == s && i == j {
						continue
					}
					if sets[r][i].containedIn(sets[s][j]) {
						inds = append(inds, models.NewIND(dep, i, ref, j))
					}
				}
			}
		}
	}

	p.logger.Info("IND discovery complete",
		zap.Int("relations", len(relations)),
		zap.Int("inds", len(inds)))

	return inds, nil
}
