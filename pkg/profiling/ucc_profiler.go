package profiling

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
	"github.com/ekaya-inc/ekaya-profiler/pkg/workerpool"
)

// UCCProfiler discovers all minimal, non-trivial unique column combinations
// of a relation.
type UCCProfiler interface {
	// Profile returns every minimal UCC of the relation, without duplicates.
	// The relation must be well formed (equal column lengths); a malformed
	// relation fails with apperrors.ErrInvalidRelation. A cancelled context
	// aborts the search between levels and no partial result is returned.
	Profile(ctx context.Context, relation *models.Relation) ([]models.UCC, error)

	// ProfileWithStats is Profile that also reports search statistics.
	ProfileWithStats(ctx context.Context, relation *models.Relation) ([]models.UCC, SearchStats, error)
}

// UCCProfilerConfig configures the lattice search.
type UCCProfilerConfig struct {
	// Parallelism bounds the number of PLI intersections computed at once
	// within a level. Values <= 1 run the search on the calling goroutine.
	Parallelism int
}

// SearchStats describes the work done by one lattice search.
type SearchStats struct {
	Levels        int           `json:"levels"`
	Pairs         int           `json:"pairs"`
	Duplicates    int           `json:"duplicates"`
	Pruned        int           `json:"pruned"`
	Intersections int           `json:"intersections"`
	Duration      time.Duration `json:"duration"`
}

type uccProfiler struct {
	parallelism int
	pool        *workerpool.Pool
	logger      *zap.Logger
}

// NewUCCProfiler creates a UCCProfiler.
func NewUCCProfiler(cfg UCCProfilerConfig, logger *zap.Logger) UCCProfiler {
	p := &uccProfiler{
		parallelism: cfg.Parallelism,
		logger:      logger.Named("ucc-profiler"),
	}
	if cfg.Parallelism > 1 {
		p.pool = workerpool.New(workerpool.Config{MaxConcurrent: cfg.Parallelism}, logger)
	}
	return p
}

var _ UCCProfiler = (*uccProfiler)(nil)

func (p *uccProfiler) Profile(ctx context.Context, relation *models.Relation) ([]models.UCC, error) {
	uccs, _, err := p.ProfileWithStats(ctx, relation)
	return uccs, err
}

func (p *uccProfiler) ProfileWithStats(ctx context.Context, relation *models.Relation) ([]models.UCC, SearchStats, error) {
	start := time.Now()
	var stats SearchStats

	if err := checkRelation(relation); err != nil {
		return nil, stats, err
	}

	uccs := []models.UCC{}

	// Level 1: one index per column.
	var frontier []*PositionListIndex
	var discovered []models.AttributeList
	for i := 0; i < relation.ColumnCount(); i++ {
		attrs := models.SingletonAttributeList(i)
		pli := NewPLIFromColumn(attrs, relation.Column(i))
		if pli.IsUnique() {
			uccs = append(uccs, models.NewUCC(relation, attrs))
			discovered = append(discovered, attrs)
			continue
		}
		frontier = append(frontier, pli)
	}
	known := uccSnapshot{}.with(discovered)
	stats.Levels = 1

	p.logger.Debug("Profiled unary columns",
		zap.String("relation", relation.Name),
		zap.Int("columns", relation.ColumnCount()),
		zap.Int("rows", relation.RowCount()),
		zap.Int("unique", len(uccs)),
		zap.Int("frontier", len(frontier)))

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("ucc search aborted at level %d: %w", stats.Levels+1, err)
		}

		candidates, ls := generateCandidates(frontier, known)
		stats.Pairs += ls.pairs
		stats.Duplicates += ls.duplicates
		stats.Pruned += ls.pruned

		joined, err := p.intersectAll(ctx, candidates)
		if err != nil {
			return nil, stats, fmt.Errorf("ucc search aborted at level %d: %w", stats.Levels+1, err)
		}
		stats.Intersections += len(joined)

		var next []*PositionListIndex
		discovered = discovered[:0:0]
		for i, pli := range joined {
			if pli.IsUnique() {
				uccs = append(uccs, models.NewUCC(relation, candidates[i].attributes))
				discovered = append(discovered, candidates[i].attributes)
				continue
			}
			next = append(next, pli)
		}

		if len(candidates) > 0 {
			stats.Levels++
		}
		known = known.with(discovered)

		p.logger.Debug("Completed lattice level",
			zap.String("relation", relation.Name),
			zap.Int("level", stats.Levels),
			zap.Int("pairs", ls.pairs),
			zap.Int("pruned", ls.pruned),
			zap.Int("duplicates", ls.duplicates),
			zap.Int("intersections", len(joined)),
			zap.Int("unique", len(discovered)),
			zap.Int("known_uccs", known.size()),
			zap.Int("frontier", len(next)))

		frontier = next
	}

	stats.Duration = time.Since(start)
	p.logger.Info("UCC discovery complete",
		zap.String("relation", relation.Name),
		zap.Int("uccs", len(uccs)),
		zap.Int("levels", stats.Levels),
		zap.Int("intersections", stats.Intersections),
		zap.Int("pruned", stats.Pruned),
		zap.Duration("duration", stats.Duration))

	return uccs, stats, nil
}

// intersectAll computes the joined index of every candidate. Results are in
// candidate order regardless of how they were scheduled.
func (p *uccProfiler) intersectAll(ctx context.Context, candidates []candidate) ([]*PositionListIndex, error) {
	if p.pool == nil || len(candidates) < 2 {
		out := make([]*PositionListIndex, len(candidates))
		for i, c := range candidates {
			out[i] = c.left.Intersect(c.right)
		}
		return out, nil
	}

	items := make([]workerpool.Item[*PositionListIndex], len(candidates))
	for i, c := range candidates {
		c := c
		items[i] = workerpool.Item[*PositionListIndex]{
			ID: c.attributes.Key(),
			Execute: func(ctx context.Context) (*PositionListIndex, error) {
				return c.left.Intersect(c.right), nil
			},
		}
	}

	results := workerpool.ProcessOrdered(ctx, p.pool, items, nil)
	out := make([]*PositionListIndex, len(results))
	for i, r := range results {
		if r.Err != nil {
			return nil, fmt.Errorf("intersect %s: %w", r.ID, r.Err)
		}
		out[i] = r.Result
	}
	return out, nil
}

// checkRelation fails fast on relations that violate the column invariants.
func checkRelation(relation *models.Relation) error {
	if relation == nil {
		return fmt.Errorf("%w: nil relation", apperrors.ErrInvalidRelation)
	}
	if len(relation.Attributes) != len(relation.Columns) {
		return fmt.Errorf("%w: %d attribute names for %d columns",
			apperrors.ErrInvalidRelation, len(relation.Attributes), len(relation.Columns))
	}
	for i, col := range relation.Columns {
		if len(col) != len(relation.Columns[0]) {
			return fmt.Errorf("%w: column %q has %d rows, expected %d",
				apperrors.ErrInvalidRelation, relation.Attributes[i], len(col), len(relation.Columns[0]))
		}
	}
	return nil
}
