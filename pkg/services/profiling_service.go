package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-profiler/pkg/matching"
	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
	"github.com/ekaya-inc/ekaya-profiler/pkg/profiling"
	"github.com/ekaya-inc/ekaya-profiler/pkg/repositories"
)

// ProfilingService runs dependency discovery and schema matching over
// relations read inline or through datasource adapters.
type ProfilingService interface {
	// ProfileUCCs discovers the minimal unique column combinations of one relation.
	ProfileUCCs(ctx context.Context, src models.RelationSource) (*models.ProfileRun, error)

	// ProfileINDs discovers unary inclusion dependencies across relations.
	// nary=true fails with apperrors.ErrUnsupportedOperation.
	ProfileINDs(ctx context.Context, srcs []models.RelationSource, nary bool) (*models.ProfileRun, error)

	// MatchSchemas computes attribute similarities and a one-to-one
	// correspondence between two relations.
	MatchSchemas(ctx context.Context, source, target models.RelationSource) (*models.ProfileRun, error)

	// GetRun returns a stored run. Without persistence it always fails with
	// apperrors.ErrNotFound.
	GetRun(ctx context.Context, id uuid.UUID) (*models.ProfileRun, error)

	// ListRuns returns stored runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*models.ProfileRun, error)

	// DatasourceTypes lists the registered datasource adapters.
	DatasourceTypes() []datasource.DatasourceAdapterInfo
}

type profilingService struct {
	uccProfiler profiling.UCCProfiler
	indProfiler profiling.INDProfiler
	firstLine   matching.FirstLineMatcher
	secondLine  matching.SecondLineMatcher
	loaders     datasource.DatasourceAdapterFactory
	runRepo     repositories.ProfileRunRepository
	resultCache repositories.ResultCache
	logger      *zap.Logger
}

// NewProfilingService creates a profiling service. runRepo and resultCache
// may be nil, disabling persistence and caching respectively.
func NewProfilingService(
	uccProfiler profiling.UCCProfiler,
	indProfiler profiling.INDProfiler,
	firstLine matching.FirstLineMatcher,
	secondLine matching.SecondLineMatcher,
	loaders datasource.DatasourceAdapterFactory,
	runRepo repositories.ProfileRunRepository,
	resultCache repositories.ResultCache,
	logger *zap.Logger,
) ProfilingService {
	return &profilingService{
		uccProfiler: uccProfiler,
		indProfiler: indProfiler,
		firstLine:   firstLine,
		secondLine:  secondLine,
		loaders:     loaders,
		runRepo:     runRepo,
		resultCache: resultCache,
		logger:      logger.Named("profiling-service"),
	}
}

func (s *profilingService) ProfileUCCs(ctx context.Context, src models.RelationSource) (*models.ProfileRun, error) {
	start := time.Now()

	rel, err := s.loadRelation(ctx, src)
	if err != nil {
		return nil, err
	}

	// The fingerprint ignores the name, but the cached result embeds it.
	cacheKey := rel.Name + "@" + rel.Fingerprint()
	if cached := s.cachedRun(ctx, models.ProfileRunKindUCC, cacheKey); cached != nil {
		return cached, nil
	}

	uccs, stats, err := s.uccProfiler.ProfileWithStats(ctx, rel)
	if err != nil {
		return nil, fmt.Errorf("profile uccs of %s: %w", rel.Name, err)
	}

	s.logger.Info("UCC discovery finished",
		zap.String("relation", rel.Name),
		zap.Int("rows", rel.RowCount()),
		zap.Int("columns", rel.ColumnCount()),
		zap.Int("uccs", len(uccs)),
		zap.Int("levels", stats.Levels),
		zap.Int("intersections", stats.Intersections),
		zap.Duration("duration", stats.Duration))

	run, err := s.finishRun(ctx, models.ProfileRunKindUCC, []string{rel.Name}, models.UCCResult{
		Relation:      rel.Name,
		RowCount:      rel.RowCount(),
		ColumnCount:   rel.ColumnCount(),
		UCCs:          uccs,
		Levels:        stats.Levels,
		Intersections: stats.Intersections,
		Pruned:        stats.Pruned,
	}, start)
	if err != nil {
		return nil, err
	}

	s.storeCachedRun(ctx, models.ProfileRunKindUCC, cacheKey, run)
	return run, nil
}

func (s *profilingService) ProfileINDs(ctx context.Context, srcs []models.RelationSource, nary bool) (*models.ProfileRun, error) {
	if nary {
		return nil, fmt.Errorf("n-ary inclusion dependencies: %w", apperrors.ErrUnsupportedOperation)
	}
	start := time.Now()

	relations := make([]*models.Relation, 0, len(srcs))
	names := make([]string, 0, len(srcs))
	for _, src := range srcs {
		rel, err := s.loadRelation(ctx, src)
		if err != nil {
			return nil, err
		}
		relations = append(relations, rel)
		names = append(names, rel.Name)
	}

	inds, err := s.indProfiler.Profile(ctx, relations, false)
	if err != nil {
		return nil, fmt.Errorf("profile inds: %w", err)
	}

	s.logger.Info("IND discovery finished",
		zap.Strings("relations", names),
		zap.Int("inds", len(inds)))

	return s.finishRun(ctx, models.ProfileRunKindIND, names, models.INDResult{INDs: inds}, start)
}

func (s *profilingService) MatchSchemas(ctx context.Context, source, target models.RelationSource) (*models.ProfileRun, error) {
	start := time.Now()

	src, err := s.loadRelation(ctx, source)
	if err != nil {
		return nil, err
	}
	tgt, err := s.loadRelation(ctx, target)
	if err != nil {
		return nil, err
	}

	sim := s.firstLine.Match(src, tgt)
	corr := s.secondLine.Match(sim)

	pairs := corr.Pairs(sim)
	if pairs == nil {
		pairs = []models.Correspondence{}
	}

	s.logger.Info("Schema matching finished",
		zap.String("source", src.Name),
		zap.String("target", tgt.Name),
		zap.Int("correspondences", len(pairs)))

	return s.finishRun(ctx, models.ProfileRunKindMatch, []string{src.Name, tgt.Name}, models.MatchResult{
		Source:          src.Name,
		Target:          tgt.Name,
		Similarity:      sim.Values,
		Correspondences: pairs,
	}, start)
}

func (s *profilingService) GetRun(ctx context.Context, id uuid.UUID) (*models.ProfileRun, error) {
	if s.runRepo == nil {
		return nil, fmt.Errorf("profile run %s: %w", id, apperrors.ErrNotFound)
	}
	return s.runRepo.GetByID(ctx, id)
}

func (s *profilingService) ListRuns(ctx context.Context, limit int) ([]*models.ProfileRun, error) {
	if s.runRepo == nil {
		return []*models.ProfileRun{}, nil
	}
	return s.runRepo.List(ctx, limit)
}

func (s *profilingService) DatasourceTypes() []datasource.DatasourceAdapterInfo {
	return s.loaders.ListTypes()
}

// loadRelation materializes a source. A non-empty source name overrides the
// name the loader assigns.
func (s *profilingService) loadRelation(ctx context.Context, src models.RelationSource) (*models.Relation, error) {
	if src.IsInline() {
		return src.InlineRelation()
	}

	loader, err := s.loaders.NewRelationLoader(ctx, src.Type, src.Config)
	if err != nil {
		return nil, fmt.Errorf("open %s datasource: %w", src.Type, err)
	}
	defer func() {
		if err := loader.Close(); err != nil {
			s.logger.Warn("Failed to close datasource loader", zap.String("type", src.Type), zap.Error(err))
		}
	}()

	rel, err := loader.LoadRelation(ctx, src.Table)
	if err != nil {
		return nil, fmt.Errorf("load %s relation %q: %w", src.Type, src.Table, err)
	}
	if src.Name != "" && src.Name != rel.Name {
		return models.NewRelation(src.Name, rel.Attributes, rel.Columns)
	}
	return rel, nil
}

func (s *profilingService) finishRun(ctx context.Context, kind models.ProfileRunKind, relations []string, result any, start time.Time) (*models.ProfileRun, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", kind, err)
	}

	run := &models.ProfileRun{
		ID:         uuid.New(),
		Kind:       kind,
		Relations:  relations,
		Result:     payload,
		DurationMs: time.Since(start).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}

	if s.runRepo != nil {
		if err := s.runRepo.Create(ctx, run); err != nil {
			return nil, fmt.Errorf("store %s run: %w", kind, err)
		}
	}
	return run, nil
}

// cachedRun returns a cache hit marked as cached. Cache errors are logged
// and treated as misses.
func (s *profilingService) cachedRun(ctx context.Context, kind models.ProfileRunKind, key string) *models.ProfileRun {
	if s.resultCache == nil {
		return nil
	}
	run, err := s.resultCache.Get(ctx, kind, key)
	if err != nil {
		s.logger.Warn("Result cache read failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil
	}
	if run == nil {
		return nil
	}
	run.Cached = true
	s.logger.Debug("Result cache hit", zap.String("kind", string(kind)), zap.String("run_id", run.ID.String()))
	return run
}

func (s *profilingService) storeCachedRun(ctx context.Context, kind models.ProfileRunKind, key string, run *models.ProfileRun) {
	if s.resultCache == nil {
		return
	}
	if err := s.resultCache.Put(ctx, kind, key, run); err != nil {
		s.logger.Warn("Result cache write failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}

// Ensure profilingService implements ProfilingService at compile time.
var _ ProfilingService = (*profilingService)(nil)
