package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-profiler/pkg/database"
	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 50

// ProfileRunRepository defines the interface for profile run data access.
type ProfileRunRepository interface {
	// Create stores a run. ID and CreatedAt are assigned when zero.
	Create(ctx context.Context, run *models.ProfileRun) error

	// GetByID returns a run or an error wrapping apperrors.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProfileRun, error)

	// List returns the most recent runs first.
	List(ctx context.Context, limit int) ([]*models.ProfileRun, error)
}

// profileRunRepository implements ProfileRunRepository using PostgreSQL.
type profileRunRepository struct {
	db *database.DB
}

// NewProfileRunRepository creates a new profile run repository.
func NewProfileRunRepository(db *database.DB) ProfileRunRepository {
	return &profileRunRepository{db: db}
}

func (r *profileRunRepository) Create(ctx context.Context, run *models.ProfileRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO profile_runs (id, kind, relations, result, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	relations := run.Relations
	if relations == nil {
		relations = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		run.ID, string(run.Kind), relations, []byte(run.Result), run.DurationMs, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create profile run: %w", err)
	}
	return nil
}

func (r *profileRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProfileRun, error) {
	query := `
		SELECT id, kind, relations, result, duration_ms, created_at
		FROM profile_runs
		WHERE id = $1`

	run, err := scanProfileRun(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile run %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile run: %w", err)
	}
	return run, nil
}

func (r *profileRunRepository) List(ctx context.Context, limit int) ([]*models.ProfileRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, kind, relations, result, duration_ms, created_at
		FROM profile_runs
		ORDER BY created_at DESC, id
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.ProfileRun{}
	for rows.Next() {
		run, err := scanProfileRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile runs: %w", err)
	}

	return runs, nil
}

func scanProfileRun(row pgx.Row) (*models.ProfileRun, error) {
	var run models.ProfileRun
	var kind string
	var result []byte
	if err := row.Scan(&run.ID, &kind, &run.Relations, &result, &run.DurationMs, &run.CreatedAt); err != nil {
		return nil, err
	}
	run.Kind = models.ProfileRunKind(kind)
	run.Result = result
	return &run, nil
}

// Ensure profileRunRepository implements ProfileRunRepository at compile time.
var _ ProfileRunRepository = (*profileRunRepository)(nil)
